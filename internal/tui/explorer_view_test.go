package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/cargofocus/internal/emissions"
	"github.com/rshade/cargofocus/internal/engine"
)

func TestViewLoading(t *testing.T) {
	m := newTestExplorer(t)
	assert.Contains(t, m.View(), "Loading shipments")
}

func TestViewQuittingIsEmpty(t *testing.T) {
	m := newTestExplorer(t)
	m.state = ExplorerStateQuitting
	assert.Empty(t, m.View())
}

func TestViewError(t *testing.T) {
	m := newTestExplorer(t)
	m.Update(recordsLoadedMsg{err: assert.AnError})

	view := m.View()
	assert.Contains(t, view, "Error:")
	assert.Contains(t, view, "Press q to quit")
}

func TestViewReady(t *testing.T) {
	m := newTestExplorer(t)
	loadRecords(t, m)

	view := m.View()
	assert.Contains(t, view, "What-If Scenario Explorer")
	assert.Contains(t, view, "Scenario:")
	assert.Contains(t, view, "all → best")
	assert.Contains(t, view, "blanket optimization")
	assert.Contains(t, view, "Baseline:")
	assert.Contains(t, view, "Preview:")
	assert.Contains(t, view, "Score:")
	assert.Contains(t, view, "Recommendation:")
	// The help footer lists the mode-cycling keys.
	assert.Contains(t, view, "source mode")
	assert.Contains(t, view, "target mode")
}

func TestViewSimulating(t *testing.T) {
	m := newTestExplorer(t)
	loadRecords(t, m)
	m.simulating = true

	view := m.View()
	assert.Contains(t, view, "Simulating...")
	assert.NotContains(t, view, "Baseline:")
}

func TestRenderRouteTableEmpty(t *testing.T) {
	assert.Contains(t, renderRouteTable(nil), "No routes affected")
}

func TestRenderRouteRow(t *testing.T) {
	impact := engine.RouteImpact{
		RecordID:   "SHP-002",
		Route:      "Frankfurt → Memphis",
		Before:     emissions.ModeAir,
		After:      emissions.ModeSea,
		OriginalKG: 23409.0,
		PreviewKG:  1028.16,
		DeltaKG:    -22380.84,
		Percent:    engine.DefinedPercent(-95.61),
		Direction:  engine.DirectionReduction,
	}

	row := renderRouteRow(impact)
	assert.Contains(t, row, "SHP-002")
	assert.Contains(t, row, "Frankfurt → Memphis")
	assert.Contains(t, row, "air")
	assert.Contains(t, row, "sea")
	assert.Contains(t, row, "23409.00")
	assert.Contains(t, row, "1028.16")
}

func TestRenderRouteRowUnchangedMode(t *testing.T) {
	impact := engine.RouteImpact{
		RecordID:   "SHP-001",
		Route:      "Shanghai → Rotterdam",
		Before:     emissions.ModeSea,
		After:      emissions.ModeSea,
		OriginalKG: 2016.0,
		PreviewKG:  2016.0,
		Percent:    engine.DefinedPercent(0),
		Direction:  engine.DirectionUnchanged,
	}

	row := renderRouteRow(impact)
	// Same mode renders without an arrow.
	assert.NotContains(t, row, IconArrowRight+"sea")
	assert.Equal(t, 1, strings.Count(row, "sea"))
}

func TestRecommendationText(t *testing.T) {
	seaMode := emissions.ModeSea

	tests := []struct {
		name string
		rec  engine.Recommendation
		want string
	}{
		{
			name: "reduction to sea",
			rec: engine.Recommendation{
				Kind: engine.RecReductionToSea, Target: &seaMode, AffectedCount: 2, Percent: 87.6,
			},
			want: "Switching 2 shipments to sea freight would cut emissions by 87.6%.",
		},
		{
			name: "single shipment",
			rec: engine.Recommendation{
				Kind: engine.RecReductionToLand, AffectedCount: 1, Percent: 12.5,
			},
			want: "Moving 1 shipment to land transport would cut emissions by 12.5%.",
		},
		{
			name: "increase to air",
			rec: engine.Recommendation{
				Kind: engine.RecIncreaseToAir, AffectedCount: 3, Percent: 240.0,
			},
			want: "Switching 3 shipments to air freight would raise emissions by 240.0%; consider keeping slower modes.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recommendationText(tt.rec))
		})
	}
}

func TestScoreStyleBands(t *testing.T) {
	// The band boundaries are inclusive at the bottom of each band.
	assert.Equal(t, ColorOK, scoreStyle(92.0).GetForeground())
	assert.Equal(t, ColorOK, scoreStyle(scoreBandGood).GetForeground())
	assert.Equal(t, ColorWarning, scoreStyle(65.0).GetForeground())
	assert.Equal(t, ColorWarning, scoreStyle(scoreBandFair).GetForeground())
	assert.Equal(t, ColorDanger, scoreStyle(20.0).GetForeground())
}

func TestDeltaStyle(t *testing.T) {
	icon, sign, style := deltaStyle(-10.0)
	assert.Equal(t, IconArrowDown, icon)
	assert.Empty(t, sign)
	assert.Equal(t, ColorOK, style.GetForeground())

	icon, sign, style = deltaStyle(10.0)
	assert.Equal(t, IconArrowUp, icon)
	assert.Equal(t, "+", sign)
	assert.Equal(t, ColorWarning, style.GetForeground())

	icon, sign, _ = deltaStyle(0)
	assert.Equal(t, IconArrowRight, icon)
	assert.Empty(t, sign)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{name: "short passes through", in: "Lyon", maxLen: 10, want: "Lyon"},
		{name: "long gets ellipsis", in: "Shanghai → Rotterdam via Suez", maxLen: 12, want: "Shanghai ..."},
		{name: "tiny max hard-cuts", in: "Rotterdam", maxLen: 3, want: "Rot"},
		{name: "multibyte safe", in: "Gdańsk → Łódź city route", maxLen: 10, want: "Gdańsk ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, tt.maxLen))
		})
	}
}
