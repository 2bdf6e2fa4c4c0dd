package engine

import (
	"encoding/json"
	"fmt"

	"github.com/rshade/cargofocus/internal/emissions"
)

// RecommendationKind is the tagged variant for scenario advice. The engine
// picks a kind from a fixed decision table keyed on (improvement, target
// mode); turning a kind into prose is the presentation layer's job.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver; String/MarshalJSON use value receivers.
type RecommendationKind int

const (
	// RecReductionToSea advises a switch to sea freight that lowers emissions.
	RecReductionToSea RecommendationKind = iota
	// RecReductionToLand advises a switch to land freight that lowers emissions.
	RecReductionToLand
	// RecGenericReduction covers any other emissions-lowering change.
	RecGenericReduction
	// RecIncreaseToAir warns that a switch to air freight raises emissions.
	RecIncreaseToAir
	// RecGenericIncrease covers any other emissions-raising change.
	RecGenericIncrease
)

// String returns the wire label for a RecommendationKind.
func (k RecommendationKind) String() string {
	switch k {
	case RecReductionToSea:
		return "reduction_to_sea"
	case RecReductionToLand:
		return "reduction_to_land"
	case RecGenericReduction:
		return "generic_reduction"
	case RecIncreaseToAir:
		return "increase_to_air"
	case RecGenericIncrease:
		return "generic_increase"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// MarshalJSON implements json.Marshaler to output RecommendationKind as string.
func (k RecommendationKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements json.Unmarshaler to parse RecommendationKind from string.
func (k *RecommendationKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("parsing recommendation kind: %w", err)
	}
	switch str {
	case "reduction_to_sea":
		*k = RecReductionToSea
	case "reduction_to_land":
		*k = RecReductionToLand
	case "generic_reduction":
		*k = RecGenericReduction
	case "increase_to_air":
		*k = RecIncreaseToAir
	case "generic_increase":
		*k = RecGenericIncrease
	default:
		return fmt.Errorf("unknown recommendation kind: %q", str)
	}
	return nil
}

// Recommendation is the structured advice attached to a scenario result:
// a kind plus the parameters a renderer needs to phrase it.
type Recommendation struct {
	// Kind selects which of the five advice variants applies.
	Kind RecommendationKind `json:"kind"`

	// Percent is the magnitude of the change, always non-negative.
	Percent float64 `json:"percent"`

	// Target is the mode the advice refers to. For blanket optimization
	// this is the globally-cheapest mode the scenario applied; nil when no
	// mode was involved.
	Target *emissions.TransportMode `json:"target,omitempty"`

	// AffectedCount is the number of routes the scenario recomputed.
	AffectedCount int `json:"affected_count"`
}

// buildRecommendation applies the fixed decision table. Exactly five kinds
// exist; combinations outside the named ones fall to the generic variants.
func buildRecommendation(deltaKG float64, percent PercentChange, target *emissions.TransportMode, affectedCount int) Recommendation {
	magnitude := percent.Value
	if magnitude < 0 {
		magnitude = -magnitude
	}

	rec := Recommendation{
		Percent:       magnitude,
		Target:        target,
		AffectedCount: affectedCount,
	}

	improvement := deltaKG < 0
	switch {
	case improvement && target != nil && *target == emissions.ModeSea:
		rec.Kind = RecReductionToSea
	case improvement && target != nil && *target == emissions.ModeLand:
		rec.Kind = RecReductionToLand
	case improvement:
		rec.Kind = RecGenericReduction
	case !improvement && target != nil && *target == emissions.ModeAir:
		rec.Kind = RecIncreaseToAir
	default:
		rec.Kind = RecGenericIncrease
	}
	return rec
}
