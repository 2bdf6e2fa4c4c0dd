package emissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquivalencies(t *testing.T) {
	tests := []struct {
		name        string
		kg          float64
		wantCarKM   float64
		wantCharges float64
		wantEmpty   bool
		wantErr     error
	}{
		{
			name:        "reference figure",
			kg:          3161.28,
			wantCarKM:   26565.38, // 3161.28 / 0.119
			wantCharges: 384571.78,
		},
		{
			name:        "exactly at threshold",
			kg:          1.0,
			wantCarKM:   8.4,
			wantCharges: 121.65,
		},
		{
			name:      "below threshold returns empty",
			kg:        0.5,
			wantEmpty: true,
		},
		{
			name:      "zero returns empty",
			kg:        0,
			wantEmpty: true,
		},
		{
			name:    "negative figure rejected",
			kg:      -10,
			wantErr: ErrNegativeEmissions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Equivalencies(tt.kg)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, got.IsEmpty)
				return
			}
			require.NoError(t, err)

			if tt.wantEmpty {
				assert.True(t, got.IsEmpty)
				assert.InDelta(t, tt.kg, got.InputKG, floatTolerance)
				return
			}

			assert.False(t, got.IsEmpty)
			require.Len(t, got.Results, 3)

			car := got.Results[0]
			assert.Equal(t, EquivalencyCarKilometres, car.Kind)
			assert.InDelta(t, tt.wantCarKM, car.Value, tt.wantCarKM*0.01)
			assert.Equal(t, "km driven by car", car.Label)

			charges := got.Results[1]
			assert.Equal(t, EquivalencySmartphoneCharges, charges.Kind)
			assert.InDelta(t, tt.wantCharges, charges.Value, tt.wantCharges*0.01)

			seedlings := got.Results[2]
			assert.Equal(t, EquivalencyTreeSeedlings, seedlings.Kind)
			assert.InDelta(t, tt.kg/TreeSeedlingFactor, seedlings.Value, floatTolerance)
		})
	}
}

func TestEquivalenciesDisplayText(t *testing.T) {
	got, err := Equivalencies(3161.28)
	require.NoError(t, err)

	assert.Contains(t, got.DisplayText, "Comparable to")
	assert.Contains(t, got.DisplayText, "26,565")
	assert.Contains(t, got.DisplayText, "smartphones")

	assert.Contains(t, got.CompactText, "≈")
	assert.Contains(t, got.CompactText, "car-km")
}

func TestEquivalenciesLargeFigures(t *testing.T) {
	got, err := Equivalencies(10_000_000)
	require.NoError(t, err)
	assert.Contains(t, got.DisplayText, "million")

	got, err = Equivalencies(500_000_000)
	require.NoError(t, err)
	// 500M kg / 0.00822 per charge crosses the billion threshold.
	assert.Contains(t, got.DisplayText, "billion")
}

func BenchmarkEquivalencies(b *testing.B) {
	for b.Loop() {
		_, _ = Equivalencies(3161.28)
	}
}
