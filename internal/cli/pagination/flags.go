package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Pagination modes and validation limits.
const (
	DefaultLimit     = 100
	MaxLimit         = 10000
	MinLimit         = 1
	DefaultPageSize  = 50
	MinPageSize      = 1
	MaxPageSize      = 1000
	DefaultOffset    = 0
	DefaultPage      = 1
	MinPage          = 1
	DefaultSortField = ""
	DefaultSortOrder = "asc"
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
)

// Common validation errors.
var (
	ErrInvalidLimit         = errors.New("limit must be between 1 and 10000")
	ErrInvalidPageSize      = errors.New("page-size must be between 1 and 1000")
	ErrInvalidOffset        = errors.New("offset must be non-negative")
	ErrInvalidPage          = errors.New("page must be >= 1")
	ErrInvalidSortOrder     = errors.New("sort order must be 'asc' or 'desc'")
	ErrMixedPaginationModes = errors.New("cannot use both offset-based (--offset) and page-based (--page) pagination")
	ErrPageSizeWithoutPage  = errors.New("--page-size requires --page to be set")
	ErrInvalidSortFormat    = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'savings:desc')")
	ErrEmptySortField       = errors.New("sort field cannot be empty")
	ErrInvalidSortField     = errors.New("invalid sort field")
)

// PaginationParams holds CLI pagination flags and provides validation.
// Supports two pagination modes:
//   - Offset-based: --limit and --offset
//   - Page-based: --page and --page-size
//
// These modes are mutually exclusive.
//
//nolint:revive // PaginationParams is the canonical name for this exported type.
type PaginationParams struct {
	// Limit is the maximum number of results to return (offset-based mode).
	Limit int

	// Offset is the number of results to skip (offset-based mode).
	Offset int

	// Page is the 1-based page number (page-based mode).
	Page int

	// PageSize is the number of results per page (page-based mode).
	PageSize int

	// SortField is the field name to sort by (e.g., "savings", "route").
	SortField string

	// SortOrder is the sort direction: "asc" or "desc".
	SortOrder string
}

// NewPaginationParams creates a PaginationParams with default values.
func NewPaginationParams() *PaginationParams {
	return &PaginationParams{
		Limit:     DefaultLimit,
		Offset:    DefaultOffset,
		Page:      0, // 0 means page-based mode not active
		PageSize:  0, // Requires Page > 0 to be valid
		SortField: DefaultSortField,
		SortOrder: DefaultSortOrder,
	}
}

// Validate checks if the pagination parameters are valid and consistent.
// Returns an error if validation fails.
func (p PaginationParams) Validate() error {
	if p.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if p.Offset < 0 {
		return errors.New("offset cannot be negative")
	}
	if p.Page < 0 {
		return errors.New("page cannot be negative")
	}
	if p.PageSize < 0 {
		return errors.New("page-size cannot be negative")
	}

	// Mutual exclusion of the two modes, checked before pairing rules.
	if p.Page > 0 && p.Offset > 0 {
		return errors.New("page and offset parameters are mutually exclusive")
	}

	if p.Page == 0 && p.PageSize > 0 {
		return errors.New("page must be specified when using page-size: page must be >= 1")
	}
	if p.PageSize == 0 && p.Page > 0 {
		return errors.New("page-size must be specified when using page: page-size must be > 0")
	}

	return nil
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses a sort string in the format "field" or "field:order".
// Examples: "savings", "percent:desc", "route:asc"
// Returns the field name and order, or an error if invalid.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	if sortStr == "" {
		return DefaultSortField, DefaultSortOrder, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = DefaultSortOrder
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}

	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	return field, order, nil
}

// IsPageBased returns true if page-based pagination is active.
func (p PaginationParams) IsPageBased() bool {
	return p.Page > 0
}

// IsOffsetBased returns true if offset-based pagination is active.
func (p PaginationParams) IsOffsetBased() bool {
	return !p.IsPageBased()
}

// GetEffectiveLimit returns the effective limit based on pagination mode.
// For page-based mode, returns PageSize. For offset-based mode, returns Limit.
func (p PaginationParams) GetEffectiveLimit() int {
	if p.IsPageBased() {
		return p.PageSize
	}
	return p.Limit
}

// GetEffectiveOffset returns the effective offset based on pagination mode.
// For page-based mode, calculates offset from page number and page size.
// For offset-based mode, returns Offset.
func (p PaginationParams) GetEffectiveOffset() int {
	if p.IsPageBased() {
		return (p.Page - 1) * p.PageSize
	}
	return p.Offset
}

// CalculateTotalPages calculates the total number of pages given a total result count.
// Only applicable for page-based mode. Returns 0 for offset-based mode.
func (p PaginationParams) CalculateTotalPages(totalResults int) int {
	if !p.IsPageBased() {
		return 0
	}
	if totalResults == 0 {
		return 0
	}
	pages := totalResults / p.PageSize
	if totalResults%p.PageSize > 0 {
		pages++
	}
	return pages
}

// IsEnabled returns true if any pagination parameters are set.
func (p PaginationParams) IsEnabled() bool {
	return p.Limit > 0 || p.Page > 0 || p.PageSize > 0 || p.Offset > 0
}

// CalculateOffsetLimit returns the effective offset and limit for pagination.
// Handles both page-based and offset-based pagination modes.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func (p PaginationParams) CalculateOffsetLimit() (offset, limit int) {
	if p.IsPageBased() {
		offset = (p.Page - 1) * p.PageSize
		// Use explicit limit if set, otherwise use page size
		if p.Limit > 0 {
			limit = p.Limit
		} else {
			limit = p.PageSize
		}
	} else {
		offset = p.Offset
		limit = p.Limit
	}

	return offset, limit
}

// ApplyToSlice applies pagination to a slice, returning the selected window.
// For page-based pagination, an offset past the end is capped to the last
// available page; for offset-based pagination it yields an empty result.
func ApplyToSlice[T any](p PaginationParams, items []T) []T {
	if len(items) == 0 {
		return items
	}

	offset, limit := p.CalculateOffsetLimit()

	if p.IsPageBased() && offset >= len(items) {
		pageSize := p.PageSize
		if pageSize <= 0 {
			pageSize = len(items)
		}
		// Last page starts at the last multiple of pageSize below len(items).
		lastPageStart := ((len(items) - 1) / pageSize) * pageSize
		offset = lastPageStart
	}

	if offset >= len(items) {
		return []T{}
	}

	start := offset
	end := offset + limit
	if limit == 0 {
		end = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return items[start:end]
}
