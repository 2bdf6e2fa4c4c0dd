// Package pagination provides utilities for CLI pagination, sorting, and result formatting.
//
// This package contains shared pagination logic used across CLI commands, including:
//   - PaginationParams: CLI flag parsing and validation
//   - PaginationMeta: Response metadata for paginated results
//   - Sorter: Sorting interface with field validation
//
// The pagination package ensures consistent pagination behavior across all cargofocus commands
// that return lists of items (opportunities, shipment reports, etc.).
package pagination
