package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cargofocus/internal/emissions"
)

func TestModeInsights(t *testing.T) {
	sim := newTestSimulator()

	got, err := sim.ModeInsights(referenceShipments())
	require.NoError(t, err)

	want := map[emissions.TransportMode]ModeStat{
		emissions.ModeAir:  {Count: 1, TotalWeightKG: 8500, TotalKG: 23409.0},
		emissions.ModeSea:  {Count: 1, TotalWeightKG: 15000, TotalKG: 2016.0},
		emissions.ModeLand: {Count: 1, TotalWeightKG: 2200, TotalKG: 118.6768},
	}

	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 0.0001)); diff != "" {
		t.Errorf("mode insights mismatch (-want +got):\n%s", diff)
	}
}

func TestModeInsightsAllModesPresent(t *testing.T) {
	sim := newTestSimulator()

	// A single-mode record set still reports all three modes, the unused
	// ones with zero defaults.
	records := []emissions.ShipmentRecord{
		{ID: "SHP-001", Origin: "Shanghai", Destination: "Rotterdam", WeightKG: 15000, TransportType: emissions.ModeSea},
	}
	got, err := sim.ModeInsights(records)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, ModeStat{}, got[emissions.ModeAir])
	assert.Equal(t, ModeStat{}, got[emissions.ModeLand])
	assert.Equal(t, 1, got[emissions.ModeSea].Count)

	empty, err := sim.ModeInsights(nil)
	require.NoError(t, err)
	require.Len(t, empty, 3)
	for _, mode := range emissions.AllModes() {
		assert.Equal(t, ModeStat{}, empty[mode])
	}
}

func TestOpportunities(t *testing.T) {
	sim := newTestSimulator()

	got, err := sim.Opportunities(referenceShipments())
	require.NoError(t, err)

	// The sea shipment is already on the cheapest mode for its route and
	// produces no opportunity; air and land both have sea as their best
	// alternative.
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "SHP-002", first.Record.ID)
	assert.Equal(t, emissions.ModeSea, first.BestMode)
	assert.InDelta(t, 23409.0, first.CurrentKG, floatTolerance)
	assert.InDelta(t, 1028.16, first.BestKG, floatTolerance)
	assert.InDelta(t, 22380.84, first.SavingsKG, floatTolerance)
	assert.InDelta(t, 95.608, first.SavingsPercent, percentTolerance)

	second := got[1]
	assert.Equal(t, "SHP-003", second.Record.ID)
	assert.Equal(t, emissions.ModeSea, second.BestMode)
	assert.InDelta(t, 96.9936, second.SavingsKG, floatTolerance)
	assert.InDelta(t, 81.728, second.SavingsPercent, percentTolerance)
}

func TestOpportunitiesProperties(t *testing.T) {
	sim := newTestSimulator()

	// Mixed set with duplicates and unknown routes.
	records := append(referenceShipments(),
		emissions.ShipmentRecord{ID: "SHP-004", Origin: "Atlantis", Destination: "El Dorado", WeightKG: 500, TransportType: emissions.ModeAir},
		emissions.ShipmentRecord{ID: "SHP-005", Origin: "Milan", Destination: "Rotterdam", WeightKG: 3000, TransportType: emissions.ModeSea},
	)

	got, err := sim.Opportunities(records)
	require.NoError(t, err)

	for i, opp := range got {
		assert.Greater(t, opp.SavingsKG, 0.0, "opportunity %d must have positive savings", i)
		assert.InDelta(t, opp.CurrentKG-opp.BestKG, opp.SavingsKG, floatTolerance)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].SavingsKG, opp.SavingsKG, "ranking must be descending")
		}
		// The alternative is chosen per record, never the record's own mode.
		assert.NotEqual(t, opp.Record.TransportType, opp.BestMode)
	}
}

func TestOpportunitiesEmpty(t *testing.T) {
	sim := newTestSimulator()

	got, err := sim.Opportunities(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func BenchmarkOpportunities(b *testing.B) {
	sim := newTestSimulator()
	records := referenceShipments()
	for b.Loop() {
		_, _ = sim.Opportunities(records)
	}
}
