package emissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReferenceTablesValidation(t *testing.T) {
	fullFactors := map[TransportMode]float64{
		ModeAir:  DefaultAirFactor,
		ModeSea:  DefaultSeaFactor,
		ModeLand: DefaultLandFactor,
	}

	tests := []struct {
		name      string
		factors   map[TransportMode]float64
		routes    []RoutePair
		defaultKM float64
		wantErr   error
	}{
		{
			name:      "valid tables",
			factors:   fullFactors,
			routes:    []RoutePair{{From: "a", To: "b", KM: 100}},
			defaultKM: 5000,
		},
		{
			name:      "missing factor is fatal",
			factors:   map[TransportMode]float64{ModeAir: 0.255, ModeSea: 0.0112},
			defaultKM: 5000,
			wantErr:   ErrMissingFactor,
		},
		{
			name:      "negative factor rejected",
			factors:   map[TransportMode]float64{ModeAir: -0.1, ModeSea: 0.0112, ModeLand: 0.0613},
			defaultKM: 5000,
			wantErr:   ErrNegativeFactor,
		},
		{
			name:      "negative route distance rejected",
			factors:   fullFactors,
			routes:    []RoutePair{{From: "a", To: "b", KM: -5}},
			defaultKM: 5000,
			wantErr:   ErrNegativeDistance,
		},
		{
			name:      "non-positive default distance rejected",
			factors:   fullFactors,
			defaultKM: 0,
			wantErr:   ErrNegativeDistance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReferenceTables(tt.factors, tt.routes, tt.defaultKM)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	tables := DefaultTables()

	for _, rt := range DefaultRoutes() {
		forward, exactF := tables.Distance(rt.From, rt.To)
		backward, exactB := tables.Distance(rt.To, rt.From)
		assert.True(t, exactF, "route %s-%s should be an exact hit", rt.From, rt.To)
		assert.True(t, exactB)
		assert.Equal(t, forward, backward, "distance(%s,%s) != distance(%s,%s)", rt.From, rt.To, rt.To, rt.From)
	}
}

func TestDistanceLookup(t *testing.T) {
	tables := DefaultTables()

	km, exact := tables.Distance("Shanghai", "Rotterdam")
	assert.True(t, exact)
	assert.Equal(t, 12000.0, km)

	// Case and surrounding whitespace do not defeat the lookup.
	km, exact = tables.Distance("  SHANGHAI ", "rotterdam")
	assert.True(t, exact)
	assert.Equal(t, 12000.0, km)

	// Unknown pairs resolve to the fallback, reported as inexact.
	km, exact = tables.Distance("Atlantis", "El Dorado")
	assert.False(t, exact)
	assert.Equal(t, DefaultDistanceKM, km)
	assert.Equal(t, DefaultDistanceKM, tables.DefaultDistance())
}

func TestFactorLookup(t *testing.T) {
	tables := DefaultTables()

	for mode, want := range map[TransportMode]float64{
		ModeAir:  DefaultAirFactor,
		ModeSea:  DefaultSeaFactor,
		ModeLand: DefaultLandFactor,
	} {
		got, err := tables.Factor(mode)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := tables.Factor(TransportMode(42))
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestLowestFactorMode(t *testing.T) {
	// Sea carries the global minimum factor in the reference configuration.
	assert.Equal(t, ModeSea, DefaultTables().LowestFactorMode())

	// Ties resolve to the earliest mode in canonical order.
	tied, err := NewReferenceTables(map[TransportMode]float64{
		ModeAir:  0.5,
		ModeSea:  0.5,
		ModeLand: 0.5,
	}, nil, 1000)
	require.NoError(t, err)
	assert.Equal(t, ModeAir, tied.LowestFactorMode())
}
