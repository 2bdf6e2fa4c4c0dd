// Package emissions provides the freight carbon model: transport modes,
// shipment records, the reference tables (emission factors and route
// distances), and the per-record emissions calculator.
//
// Everything in this package is a pure computation over in-memory values.
// Reference tables are immutable after construction and safe to share
// across goroutines without locking.
package emissions

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TransportMode identifies how a shipment travels.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver; String/MarshalJSON use value receivers.
type TransportMode int

const (
	// ModeAir is air freight.
	ModeAir TransportMode = iota
	// ModeSea is deep-sea container freight.
	ModeSea
	// ModeLand is road freight.
	ModeLand
)

// modeCount is the number of valid transport modes.
const modeCount = 3

// String returns the wire label for a TransportMode.
func (m TransportMode) String() string {
	switch m {
	case ModeAir:
		return "air"
	case ModeSea:
		return "sea"
	case ModeLand:
		return "land"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// MarshalJSON implements json.Marshaler to output TransportMode as string.
func (m TransportMode) MarshalJSON() ([]byte, error) {
	if !isValidMode(m) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return json.Marshal(m.String())
}

// UnmarshalJSON implements json.Unmarshaler to parse TransportMode from string.
func (m *TransportMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("parsing transport mode: %w", err)
	}
	parsed, err := ParseTransportMode(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler to output TransportMode as string.
func (m TransportMode) MarshalYAML() (interface{}, error) {
	if !isValidMode(m) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return m.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler to parse TransportMode from string.
func (m *TransportMode) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return fmt.Errorf("parsing transport mode: %w", err)
	}
	parsed, err := ParseTransportMode(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseTransportMode converts a wire label into a TransportMode.
// Returns ErrUnknownMode for anything outside {air, sea, land}.
func ParseTransportMode(s string) (TransportMode, error) {
	switch s {
	case "air":
		return ModeAir, nil
	case "sea":
		return ModeSea, nil
	case "land":
		return ModeLand, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// AllModes returns the fixed mode set in canonical order.
// The order is stable and used for deterministic iteration and tie-breaks.
func AllModes() []TransportMode {
	return []TransportMode{ModeAir, ModeSea, ModeLand}
}

// isValidMode returns true if the mode is within the valid range.
func isValidMode(m TransportMode) bool {
	return m >= ModeAir && m < modeCount
}
