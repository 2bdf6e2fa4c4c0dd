package emissions

import "fmt"

// ShipmentRecord is one freight movement as supplied by a record provider.
//
// Records are owned by the caller for the duration of a calculation and are
// never mutated by this package or by the scenario engine.
type ShipmentRecord struct {
	// ID uniquely identifies the shipment within its record set.
	ID string `json:"id" yaml:"id"`

	// Origin is the departure location label.
	Origin string `json:"origin" yaml:"origin"`

	// Destination is the arrival location label.
	Destination string `json:"destination" yaml:"destination"`

	// WeightKG is the cargo mass in kilograms. Must be positive.
	WeightKG float64 `json:"weight_kg" yaml:"weight_kg"`

	// TransportType is the mode the shipment currently travels by.
	TransportType TransportMode `json:"transport_type" yaml:"transport_type"`

	// Timestamp is an optional ISO-8601 departure time. Informational only;
	// no calculation reads it.
	Timestamp string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// Validate checks the record for the invariants the calculator relies on:
// non-blank identity and locations, positive weight, and a known mode.
func (r ShipmentRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: id", ErrMissingField)
	}
	if r.Origin == "" {
		return fmt.Errorf("%w: origin (shipment %s)", ErrMissingField, r.ID)
	}
	if r.Destination == "" {
		return fmt.Errorf("%w: destination (shipment %s)", ErrMissingField, r.ID)
	}
	if r.WeightKG <= 0 {
		return fmt.Errorf("%w: got %v (shipment %s)", ErrNonPositiveWeight, r.WeightKG, r.ID)
	}
	if !isValidMode(r.TransportType) {
		return fmt.Errorf("%w: %d (shipment %s)", ErrUnknownMode, int(r.TransportType), r.ID)
	}
	return nil
}

// Route returns the record's route label, "origin → destination".
func (r ShipmentRecord) Route() string {
	return r.Origin + " → " + r.Destination
}
