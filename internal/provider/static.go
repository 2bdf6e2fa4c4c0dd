package provider

import (
	"context"

	"github.com/rshade/cargofocus/internal/emissions"
)

// Static serves a fixed in-memory record set. It backs the demo source and
// is handy in tests.
type Static struct {
	records []emissions.ShipmentRecord
}

// NewStatic wraps the given records in a provider.
func NewStatic(records []emissions.ShipmentRecord) *Static {
	return &Static{records: records}
}

// FetchShipments returns a copy of the record set.
func (s *Static) FetchShipments(_ context.Context) ([]emissions.ShipmentRecord, error) {
	out := make([]emissions.ShipmentRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Name identifies the source kind.
func (s *Static) Name() string { return "static" }

// DemoShipments returns the bundled demo record set: a small multimodal
// mix over the built-in route table, so every command works out of the box
// before any data source is configured.
func DemoShipments() []emissions.ShipmentRecord {
	return []emissions.ShipmentRecord{
		{
			ID:            "SHP-001",
			Origin:        "Shanghai",
			Destination:   "Rotterdam",
			WeightKG:      15000,
			TransportType: emissions.ModeSea,
			Timestamp:     "2026-07-02T08:30:00Z",
		},
		{
			ID:            "SHP-002",
			Origin:        "Frankfurt",
			Destination:   "Memphis",
			WeightKG:      8500,
			TransportType: emissions.ModeAir,
			Timestamp:     "2026-07-03T21:15:00Z",
		},
		{
			ID:            "SHP-003",
			Origin:        "Warsaw",
			Destination:   "Lyon",
			WeightKG:      2200,
			TransportType: emissions.ModeLand,
			Timestamp:     "2026-07-05T05:00:00Z",
		},
		{
			ID:            "SHP-004",
			Origin:        "Singapore",
			Destination:   "Hamburg",
			WeightKG:      22000,
			TransportType: emissions.ModeSea,
			Timestamp:     "2026-07-06T11:45:00Z",
		},
		{
			ID:            "SHP-005",
			Origin:        "Shenzhen",
			Destination:   "Los Angeles",
			WeightKG:      4300,
			TransportType: emissions.ModeAir,
			Timestamp:     "2026-07-08T16:20:00Z",
		},
		{
			ID:            "SHP-006",
			Origin:        "Madrid",
			Destination:   "Gdansk",
			WeightKG:      6100,
			TransportType: emissions.ModeLand,
			Timestamp:     "2026-07-09T07:10:00Z",
		},
	}
}
