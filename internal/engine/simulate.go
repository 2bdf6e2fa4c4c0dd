// Package engine evaluates what-if transport scenarios over shipment
// records: baseline emissions, hypothetical reassignments, health scoring,
// per-mode insight aggregation, and ranked optimization opportunities.
//
// Every operation is a pure synchronous computation over the records it is
// handed. The engine holds no mutable state beyond the immutable reference
// tables inside its calculator, performs no I/O, and never logs; callers
// own presentation and error rendering.
package engine

import (
	"math"

	"github.com/rshade/cargofocus/internal/emissions"
)

// maxScore is the top of the health-score range.
const maxScore = 100.0

// Simulator evaluates scenario requests against one calculator. Safe for
// concurrent use; each call builds a fresh result.
type Simulator struct {
	calc *emissions.Calculator
}

// NewSimulator returns a Simulator computing with the given calculator.
func NewSimulator(calc *emissions.Calculator) *Simulator {
	return &Simulator{calc: calc}
}

// Calculator returns the calculator the simulator computes with.
func (s *Simulator) Calculator() *emissions.Calculator {
	return s.calc
}

// Simulate evaluates a what-if scenario:
//
//  1. Baseline: total emissions of the full record set.
//  2. Affected subset per the request selectors; an empty selection obeys
//     the request's SelectionPolicy.
//  3. Mode substitution (Target set) recomputes every affected record with
//     the target's factor. Blanket optimization (SourceAll, no Target)
//     applies the single globally-cheapest mode uniformly — deliberately
//     not the per-record best, which is Opportunities' job. A request with
//     neither is a pure selection preview: nothing changes.
//  4. preview = baseline − affectedOriginal + affectedPreview; delta and
//     percent follow, with a zero baseline handled as a tagged outcome or
//     ErrDegenerateBaseline rather than a non-numeric value.
//  5. Health score: 100 − preview/max(baseline, preview) × 100, clamped
//     to [0,100]; an all-zero comparison scores 100.
//
// Records are never mutated; the hypothetical reassignment exists only in
// the result.
func (s *Simulator) Simulate(records []emissions.ShipmentRecord, req ScenarioRequest) (*ScenarioResult, error) {
	original, err := s.calc.TotalEmissions(records)
	if err != nil {
		return nil, err
	}

	result := &ScenarioResult{
		Request:    req,
		OriginalKG: original,
	}

	affected, filtered := selectAffected(records, req)
	if len(affected) == 0 && filtered {
		switch req.EmptySelection {
		case SelectionStrict:
			result.NoMatches = true
		default:
			affected = records
			result.FellBackToAll = true
		}
	}

	// Resolve the mode each affected record is reassigned to. recTarget
	// carries the mode for the recommendation; nil for a pure selection.
	var recTarget *emissions.TransportMode
	assign := func(rec emissions.ShipmentRecord) emissions.TransportMode { return rec.TransportType }
	switch {
	case req.Target != nil:
		target := *req.Target
		recTarget = &target
		assign = func(emissions.ShipmentRecord) emissions.TransportMode { return target }
	case req.IsBlanket():
		best := s.calc.Tables().LowestFactorMode()
		recTarget = &best
		assign = func(emissions.ShipmentRecord) emissions.TransportMode { return best }
	}

	var origAffected, newAffected float64
	impacts := make([]RouteImpact, 0, len(affected))
	for _, rec := range affected {
		before, emErr := s.calc.Emissions(rec)
		if emErr != nil {
			return nil, emErr
		}
		after := assign(rec)
		preview, emErr := s.calc.EmissionsAs(rec, after)
		if emErr != nil {
			return nil, emErr
		}

		origAffected += before
		newAffected += preview

		deltaKG := preview - before
		impact := RouteImpact{
			RecordID:   rec.ID,
			Route:      rec.Route(),
			Before:     rec.TransportType,
			After:      after,
			OriginalKG: before,
			PreviewKG:  preview,
			DeltaKG:    deltaKG,
			Direction:  directionOf(deltaKG),
		}
		if before > 0 {
			impact.Percent = DefinedPercent(deltaKG / before * maxScore)
		} else if deltaKG == 0 {
			impact.Percent = UndefinedPercent()
		} else {
			return nil, ErrDegenerateBaseline
		}
		impacts = append(impacts, impact)
	}
	result.Affected = impacts

	if recTarget == nil {
		// Pure selection: the preview is the unchanged baseline.
		result.PreviewKG = original
		result.DeltaKG = 0
	} else {
		result.PreviewKG = original - origAffected + newAffected
		result.DeltaKG = result.PreviewKG - result.OriginalKG
	}

	switch {
	case original > 0:
		result.Percent = DefinedPercent(result.DeltaKG / original * maxScore)
	case result.DeltaKG == 0:
		result.Percent = UndefinedPercent()
	default:
		return nil, ErrDegenerateBaseline
	}

	result.Score = previewScore(result.OriginalKG, result.PreviewKG)
	result.Recommendation = buildRecommendation(result.DeltaKG, result.Percent, recTarget, len(affected))

	return result, nil
}

// previewScore maps a baseline/preview pair onto the inverted 0–100 health
// scale: 100 is the cleanest of the two totals, 0 the dirtiest. When both
// totals are zero there is nothing to penalize and the score is 100.
func previewScore(originalKG, previewKG float64) float64 {
	reference := math.Max(originalKG, previewKG)
	if reference <= 0 {
		return maxScore
	}
	score := maxScore - previewKG/reference*maxScore
	return math.Min(maxScore, math.Max(0, score))
}
