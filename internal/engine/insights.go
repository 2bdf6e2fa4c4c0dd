package engine

import (
	"sort"

	"github.com/rshade/cargofocus/internal/emissions"
)

// ModeStat aggregates one transport mode's share of a record set.
type ModeStat struct {
	// Count is the number of shipments travelling by the mode.
	Count int `json:"count"`

	// TotalWeightKG is the summed cargo mass in kilograms.
	TotalWeightKG float64 `json:"total_weight_kg"`

	// TotalKG is the summed emissions in kg CO2e.
	TotalKG float64 `json:"total_emissions_kg"`
}

// Opportunity is one route's potential saving against its own best
// alternative mode.
type Opportunity struct {
	// Record is the shipment the opportunity applies to.
	Record emissions.ShipmentRecord `json:"record"`

	// BestMode is the alternative mode with the lowest footprint for this
	// record.
	BestMode emissions.TransportMode `json:"best_mode"`

	// CurrentKG is the record's actual footprint in kg CO2e.
	CurrentKG float64 `json:"current_kg"`

	// BestKG is the footprint under BestMode in kg CO2e.
	BestKG float64 `json:"best_kg"`

	// SavingsKG is CurrentKG − BestKG, strictly positive.
	SavingsKG float64 `json:"savings_kg"`

	// SavingsPercent is the saving as a share of the current footprint.
	SavingsPercent float64 `json:"savings_percent"`
}

// ModeInsights groups a record set by transport mode in a single pass.
// Every mode in the fixed {air, sea, land} set is present in the returned
// map, with zero values for modes no record uses.
func (s *Simulator) ModeInsights(records []emissions.ShipmentRecord) (map[emissions.TransportMode]ModeStat, error) {
	stats := make(map[emissions.TransportMode]ModeStat, len(emissions.AllModes()))
	for _, mode := range emissions.AllModes() {
		stats[mode] = ModeStat{}
	}

	for _, rec := range records {
		kg, err := s.calc.Emissions(rec)
		if err != nil {
			return nil, err
		}
		stat := stats[rec.TransportType]
		stat.Count++
		stat.TotalWeightKG += rec.WeightKG
		stat.TotalKG += kg
		stats[rec.TransportType] = stat
	}

	return stats, nil
}

// Opportunities ranks per-route savings against each record's own best
// alternative mode. Unlike blanket optimization, the alternative is chosen
// per record: every other priced mode is evaluated for the same weight and
// route, and the minimum kept. Records whose current mode is already the
// cheapest produce no opportunity; results are sorted descending by
// savings, input order preserved on ties.
func (s *Simulator) Opportunities(records []emissions.ShipmentRecord) ([]Opportunity, error) {
	opportunities := make([]Opportunity, 0, len(records))

	for _, rec := range records {
		current, err := s.calc.Emissions(rec)
		if err != nil {
			return nil, err
		}

		var best *Opportunity
		for _, mode := range emissions.AllModes() {
			if mode == rec.TransportType {
				continue
			}
			kg, err := s.calc.EmissionsAs(rec, mode)
			if err != nil {
				return nil, err
			}
			if best == nil || kg < best.BestKG {
				best = &Opportunity{
					Record:    rec,
					BestMode:  mode,
					CurrentKG: current,
					BestKG:    kg,
				}
			}
		}

		if best == nil || best.BestKG >= current {
			continue
		}
		best.SavingsKG = current - best.BestKG
		best.SavingsPercent = best.SavingsKG / current * maxScore
		opportunities = append(opportunities, *best)
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].SavingsKG > opportunities[j].SavingsKG
	})

	return opportunities, nil
}
