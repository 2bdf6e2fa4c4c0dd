package emissions

import "fmt"

// gramsPerKilogram converts the factor's gram-denominated result to kg CO2e.
const gramsPerKilogram = 1000.0

// Calculator computes per-record and aggregate emissions against one set of
// reference tables. It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	tables *ReferenceTables
}

// NewCalculator returns a Calculator bound to the given reference tables.
func NewCalculator(tables *ReferenceTables) *Calculator {
	return &Calculator{tables: tables}
}

// Tables returns the reference tables the calculator reads from.
func (c *Calculator) Tables() *ReferenceTables {
	return c.tables
}

// Emissions returns the record's carbon footprint in kg CO2e:
//
//	weight_kg × distance_km(origin, destination) × factor[mode] / 1000
//
// Distance falls back to the table's default when the route is unknown
// (a silent lookup miss, not an error). An unknown transport mode is a
// configuration error and aborts the calculation.
func (c *Calculator) Emissions(rec ShipmentRecord) (float64, error) {
	return c.EmissionsAs(rec, rec.TransportType)
}

// EmissionsAs returns the record's hypothetical footprint in kg CO2e if it
// travelled by the given mode instead of its own, over the same route and
// weight. EmissionsAs(rec, rec.TransportType) equals Emissions(rec).
func (c *Calculator) EmissionsAs(rec ShipmentRecord, mode TransportMode) (float64, error) {
	factor, err := c.tables.Factor(mode)
	if err != nil {
		return 0, fmt.Errorf("shipment %s: %w", rec.ID, err)
	}
	km, _ := c.tables.Distance(rec.Origin, rec.Destination)
	return rec.WeightKG * km * factor / gramsPerKilogram, nil
}

// TotalEmissions returns the sum of per-record emissions in kg CO2e.
// The first record that fails aborts the whole sum.
func (c *Calculator) TotalEmissions(records []ShipmentRecord) (float64, error) {
	var total float64
	for _, rec := range records {
		kg, err := c.Emissions(rec)
		if err != nil {
			return 0, err
		}
		total += kg
	}
	return total, nil
}
