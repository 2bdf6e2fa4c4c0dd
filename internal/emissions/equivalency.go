package emissions

import (
	"fmt"
	"math"
)

// Equivalency conversion factors. Each is the kg CO2e cost of one unit of
// the activity, so equivalency = kg_CO2e / factor.
const (
	// CarKilometreFactor is kg CO2e per kilometre for an average passenger car.
	CarKilometreFactor = 0.119

	// SmartphoneChargeFactor is kg CO2e per full smartphone charge.
	SmartphoneChargeFactor = 0.00822

	// TreeSeedlingFactor is kg CO2e sequestered by one tree seedling grown
	// for ten years.
	TreeSeedlingFactor = 60.0
)

// Display thresholds controlling when equivalencies are shown.
const (
	// MinEquivalencyThresholdKG is the minimum kg CO2e for showing
	// equivalencies. Below it the comparisons are meaninglessly small and
	// callers render the raw figure alone.
	MinEquivalencyThresholdKG = 1.0

	// LargeNumberThreshold switches display to "~X.X million" format.
	LargeNumberThreshold = 1_000_000

	// BillionThreshold switches display to "~X.X billion" format.
	BillionThreshold = 1_000_000_000
)

// EquivalencyKind identifies a category of carbon equivalency.
type EquivalencyKind int

const (
	// EquivalencyCarKilometres converts CO2e to kilometres driven in an
	// average passenger car.
	EquivalencyCarKilometres EquivalencyKind = iota

	// EquivalencySmartphoneCharges converts CO2e to full smartphone charges.
	EquivalencySmartphoneCharges

	// EquivalencyTreeSeedlings converts CO2e to tree seedlings grown for
	// ten years to sequester the same mass.
	EquivalencyTreeSeedlings
)

// String returns a human-readable representation of the EquivalencyKind.
func (k EquivalencyKind) String() string {
	switch k {
	case EquivalencyCarKilometres:
		return "CarKilometres"
	case EquivalencySmartphoneCharges:
		return "SmartphoneCharges"
	case EquivalencyTreeSeedlings:
		return "TreeSeedlings"
	default:
		return fmt.Sprintf("EquivalencyKind(%d)", int(k))
	}
}

// Equivalency is one calculated comparison.
type Equivalency struct {
	// Kind identifies the equivalency category.
	Kind EquivalencyKind `json:"kind"`

	// Value is the raw calculated equivalency value.
	Value float64 `json:"value"`

	// FormattedValue is the display-ready string with separators/scaling.
	FormattedValue string `json:"formatted_value"`

	// Label is the descriptive phrase (e.g., "km driven by car").
	Label string `json:"label"`
}

// EquivalencySummary holds all comparisons for one emissions figure.
type EquivalencySummary struct {
	// InputKG is the emissions figure the comparisons describe, in kg CO2e.
	InputKG float64 `json:"input_kg"`

	// Results contains the calculated equivalencies in priority order.
	Results []Equivalency `json:"results"`

	// DisplayText is the full prose format for CLI/TUI output.
	// Example: "Comparable to driving ~26,500 km by car or charging ~384,000 smartphones"
	DisplayText string `json:"display_text"`

	// CompactText is the abbreviated format for constrained outputs.
	// Example: "(≈ 26,500 car-km, 384,000 charges)"
	CompactText string `json:"compact_text"`

	// IsEmpty is true when the input was below the display threshold and no
	// comparisons were produced.
	IsEmpty bool `json:"is_empty"`
}

// Equivalencies converts an emissions figure in kg CO2e into relatable
// comparisons: kilometres driven, smartphone charges, and tree seedlings.
//
// Figures below MinEquivalencyThresholdKG produce an empty summary with
// InputKG set and no error. Negative figures fail with ErrNegativeEmissions.
func Equivalencies(kgCO2e float64) (EquivalencySummary, error) {
	if kgCO2e < 0 {
		return EquivalencySummary{IsEmpty: true}, fmt.Errorf("%w: %v kg", ErrNegativeEmissions, kgCO2e)
	}
	if kgCO2e < MinEquivalencyThresholdKG {
		return EquivalencySummary{InputKG: kgCO2e, IsEmpty: true}, nil
	}

	carKM := kgCO2e / CarKilometreFactor
	charges := kgCO2e / SmartphoneChargeFactor
	seedlings := kgCO2e / TreeSeedlingFactor

	if math.IsInf(carKM, 0) || math.IsNaN(carKM) ||
		math.IsInf(charges, 0) || math.IsNaN(charges) {
		return EquivalencySummary{IsEmpty: true}, ErrCalculationOverflow
	}

	carFormatted := formatEquivalencyValue(carKM)
	chargesFormatted := formatEquivalencyValue(charges)
	seedlingsFormatted := formatEquivalencyValue(seedlings)

	results := []Equivalency{
		{
			Kind:           EquivalencyCarKilometres,
			Value:          carKM,
			FormattedValue: carFormatted,
			Label:          "km driven by car",
		},
		{
			Kind:           EquivalencySmartphoneCharges,
			Value:          charges,
			FormattedValue: chargesFormatted,
			Label:          "smartphones charged",
		},
		{
			Kind:           EquivalencyTreeSeedlings,
			Value:          seedlings,
			FormattedValue: seedlingsFormatted,
			Label:          "tree seedlings grown for 10 years",
		},
	}

	displayText := fmt.Sprintf("Comparable to driving ~%s km by car or charging ~%s smartphones",
		carFormatted, chargesFormatted)
	compactText := fmt.Sprintf("(≈ %s car-km, %s charges)", carFormatted, chargesFormatted)

	return EquivalencySummary{
		InputKG:     kgCO2e,
		Results:     results,
		DisplayText: displayText,
		CompactText: compactText,
		IsEmpty:     false,
	}, nil
}

// formatEquivalencyValue formats an equivalency value for display, using
// abbreviated notation past the million threshold and comma-grouped
// integers below it.
func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
