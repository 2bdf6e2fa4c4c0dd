package engine

import (
	"fmt"

	"github.com/rshade/cargofocus/internal/emissions"
)

// PercentChange is a tagged percent outcome. Defined is false when the
// comparison baseline was zero and no meaningful ratio exists; renderers
// show an em dash instead of a number in that case.
type PercentChange struct {
	Defined bool    `json:"defined"`
	Value   float64 `json:"value"`
}

// DefinedPercent returns an Ok percent outcome.
func DefinedPercent(v float64) PercentChange {
	return PercentChange{Defined: true, Value: v}
}

// UndefinedPercent returns the undefined outcome.
func UndefinedPercent() PercentChange {
	return PercentChange{}
}

// Format renders the outcome for display: "-3.33%" or "—".
func (p PercentChange) Format() string {
	if !p.Defined {
		return "—"
	}
	return fmt.Sprintf("%+.2f%%", p.Value)
}

// Direction labels which way a route's emissions moved under a scenario.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver; String/MarshalJSON use value receivers.
type Direction int

const (
	// DirectionUnchanged means the scenario left the route's emissions as they were.
	DirectionUnchanged Direction = iota
	// DirectionReduction means the scenario lowered the route's emissions.
	DirectionReduction
	// DirectionIncrease means the scenario raised the route's emissions.
	DirectionIncrease
)

// String returns the directional word used in route summaries.
func (d Direction) String() string {
	switch d {
	case DirectionReduction:
		return "reduction"
	case DirectionIncrease:
		return "increase"
	case DirectionUnchanged:
		return "unchanged"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// MarshalJSON implements json.Marshaler to output Direction as string.
func (d Direction) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler to parse Direction from string.
func (d *Direction) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"reduction"`:
		*d = DirectionReduction
	case `"increase"`:
		*d = DirectionIncrease
	case `"unchanged"`:
		*d = DirectionUnchanged
	default:
		return fmt.Errorf("unknown direction: %s", string(data))
	}
	return nil
}

// directionOf classifies a delta.
func directionOf(deltaKG float64) Direction {
	switch {
	case deltaKG < 0:
		return DirectionReduction
	case deltaKG > 0:
		return DirectionIncrease
	default:
		return DirectionUnchanged
	}
}

// RouteImpact is the per-affected-route summary inside a scenario result.
type RouteImpact struct {
	// RecordID identifies the shipment.
	RecordID string `json:"record_id"`

	// Route is the "origin → destination" label.
	Route string `json:"route"`

	// Before is the mode the record actually travels by.
	Before emissions.TransportMode `json:"before"`

	// After is the mode the scenario assigned.
	After emissions.TransportMode `json:"after"`

	// OriginalKG is the record's actual footprint in kg CO2e.
	OriginalKG float64 `json:"original_kg"`

	// PreviewKG is the record's hypothetical footprint in kg CO2e.
	PreviewKG float64 `json:"preview_kg"`

	// DeltaKG is PreviewKG − OriginalKG.
	DeltaKG float64 `json:"delta_kg"`

	// Percent is the per-route percent change, undefined when the route's
	// own baseline is zero.
	Percent PercentChange `json:"percent"`

	// Direction is the directional word for the route summary.
	Direction Direction `json:"direction"`
}

// Label renders the impact as a one-line route summary, e.g.
// "Frankfurt → Memphis: 95.61% reduction (air → sea)".
func (ri RouteImpact) Label() string {
	if !ri.Percent.Defined {
		return fmt.Sprintf("%s: %s (%s → %s)", ri.Route, ri.Direction, ri.Before, ri.After)
	}
	magnitude := ri.Percent.Value
	if magnitude < 0 {
		magnitude = -magnitude
	}
	return fmt.Sprintf("%s: %.2f%% %s (%s → %s)", ri.Route, magnitude, ri.Direction, ri.Before, ri.After)
}

// ScenarioResult is the outcome of one what-if evaluation. Results are
// built fresh per call, never cached, and immutable once returned.
type ScenarioResult struct {
	// RunID correlates the result with log lines; set by the caller that
	// owns the run, not by the engine.
	RunID string `json:"run_id,omitempty"`

	// Request echoes the evaluated scenario.
	Request ScenarioRequest `json:"request"`

	// OriginalKG is the baseline: total emissions of the full record set.
	OriginalKG float64 `json:"original_kg"`

	// PreviewKG is the hypothetical total under the scenario.
	PreviewKG float64 `json:"preview_kg"`

	// DeltaKG is PreviewKG − OriginalKG; negative means cleaner.
	DeltaKG float64 `json:"delta_kg"`

	// Percent is DeltaKG as a share of the baseline, undefined when the
	// baseline is zero.
	Percent PercentChange `json:"percent"`

	// Score is the 0–100 health score of the preview: 100 cleanest.
	Score float64 `json:"score"`

	// Affected holds per-route summaries in input order.
	Affected []RouteImpact `json:"affected_routes"`

	// Recommendation is the structured advice variant for this outcome.
	Recommendation Recommendation `json:"recommendation"`

	// FellBackToAll is true when an empty selection was widened to the
	// whole record set under the fallback policy.
	FellBackToAll bool `json:"fell_back_to_all,omitempty"`

	// NoMatches is true when a strict-policy selection matched nothing and
	// the result is therefore a zero-change preview.
	NoMatches bool `json:"no_matches,omitempty"`
}

// Improvement reports whether the scenario lowers total emissions.
func (r *ScenarioResult) Improvement() bool {
	return r.DeltaKG < 0
}
