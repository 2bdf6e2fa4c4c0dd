// Package provider resolves shipment record sources behind a single
// interface, so the CLI, TUI, and MCP server do not care whether records
// come from a built-in demo set, a manifest file, or Postgres.
package provider

import (
	"context"
	"fmt"

	"github.com/rshade/cargofocus/internal/config"
	"github.com/rshade/cargofocus/internal/emissions"
)

// constError is a sentinel error type that can be declared as a constant.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for provider resolution.
const (
	// ErrMissingPath indicates a file provider was configured without a
	// manifest path.
	ErrMissingPath = constError("file provider requires a manifest path")

	// ErrMissingDSN indicates a postgres provider was configured without a
	// connection string.
	ErrMissingDSN = constError("postgres provider requires a DSN")
)

// Provider fetches the shipment record set to analyze.
type Provider interface {
	// FetchShipments returns the full validated record set. The returned
	// slice is owned by the caller.
	FetchShipments(ctx context.Context) ([]emissions.ShipmentRecord, error)

	// Name identifies the source kind for logging and output headers.
	Name() string
}

// FromConfig builds the provider selected by cfg.Provider. An explicit
// path argument overrides the configured manifest path, letting commands
// accept positional manifest files.
func FromConfig(cfg *config.Config, pathOverride string) (Provider, error) {
	source := cfg.Provider.Source
	if pathOverride != "" {
		source = config.SourceFile
	}

	switch source {
	case config.SourceStatic, "":
		return NewStatic(DemoShipments()), nil
	case config.SourceFile:
		path := cfg.Provider.Path
		if pathOverride != "" {
			path = pathOverride
		}
		if path == "" {
			return nil, ErrMissingPath
		}
		return NewFile(path), nil
	case config.SourcePostgres:
		if cfg.Provider.DSN == "" {
			return nil, ErrMissingDSN
		}
		return NewPostgres(cfg.Provider.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProviderSource, source)
	}
}
