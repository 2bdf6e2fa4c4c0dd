package provider

import (
	"context"

	"github.com/rshade/cargofocus/internal/emissions"
	"github.com/rshade/cargofocus/internal/ingest"
)

// File loads records from a shipment manifest on disk each fetch, so a
// long-lived TUI session sees manifest edits on reload.
type File struct {
	path string
}

// NewFile creates a provider reading the manifest at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// FetchShipments loads and validates the manifest.
func (f *File) FetchShipments(ctx context.Context) ([]emissions.ShipmentRecord, error) {
	return ingest.LoadShipmentsWithContext(ctx, f.path)
}

// Name identifies the source kind.
func (f *File) Name() string { return "file" }

// Path returns the manifest path this provider reads.
func (f *File) Path() string { return f.path }

var (
	_ Provider = (*File)(nil)
	_ Provider = (*Static)(nil)
)
