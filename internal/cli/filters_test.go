package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cargofocus/internal/cli"
	"github.com/rshade/cargofocus/internal/emissions"
)

func filterFixture() []emissions.ShipmentRecord {
	return []emissions.ShipmentRecord{
		{ID: "SHP-001", Origin: "Shanghai", Destination: "Rotterdam", WeightKG: 15000, TransportType: emissions.ModeSea},
		{ID: "SHP-002", Origin: "Frankfurt", Destination: "Memphis", WeightKG: 8500, TransportType: emissions.ModeAir},
		{ID: "SHP-003", Origin: "Warsaw", Destination: "Lyon", WeightKG: 2200, TransportType: emissions.ModeLand},
		{ID: "SHP-004", Origin: "Shanghai", Destination: "Hamburg", WeightKG: 4000, TransportType: emissions.ModeSea},
	}
}

func TestValidateRecordFilter(t *testing.T) {
	tests := []struct {
		name    string
		filter  string
		wantErr string
	}{
		{name: "valid mode", filter: "mode=air"},
		{name: "valid origin", filter: "origin=Shanghai"},
		{name: "valid destination", filter: "destination=Lyon"},
		{name: "valid id", filter: "id=SHP-001"},
		{name: "missing equals", filter: "modeair", wantErr: "want key=value"},
		{name: "empty value", filter: "mode=", wantErr: "want key=value"},
		{name: "empty key", filter: "=air", wantErr: "want key=value"},
		{name: "unknown key", filter: "weight=100", wantErr: "invalid filter key"},
		{name: "unknown mode value", filter: "mode=teleport", wantErr: "invalid filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.ValidateRecordFilter(tt.filter)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFilterRecords(t *testing.T) {
	records := filterFixture()

	tests := []struct {
		name    string
		filter  string
		wantIDs []string
	}{
		{name: "by mode", filter: "mode=sea", wantIDs: []string{"SHP-001", "SHP-004"}},
		{name: "by origin case-insensitive", filter: "origin=shanghai", wantIDs: []string{"SHP-001", "SHP-004"}},
		{name: "by destination", filter: "destination=Memphis", wantIDs: []string{"SHP-002"}},
		{name: "by id exact", filter: "id=SHP-003", wantIDs: []string{"SHP-003"}},
		{name: "id is case sensitive", filter: "id=shp-003", wantIDs: []string{}},
		{name: "no match", filter: "origin=Oslo", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched := cli.FilterRecords(records, tt.filter)
			ids := make([]string, 0, len(matched))
			for _, rec := range matched {
				ids = append(ids, rec.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestApplyFiltersNarrowsSequentially(t *testing.T) {
	records := filterFixture()

	result, err := cli.ApplyFilters(t.Context(), records, []string{"mode=sea", "destination=Hamburg"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "SHP-004", result[0].ID)
}

func TestApplyFiltersEmptySliceReturnsAll(t *testing.T) {
	records := filterFixture()

	result, err := cli.ApplyFilters(t.Context(), records, nil)
	require.NoError(t, err)
	assert.Len(t, result, len(records))
}

func TestApplyFiltersInvalidFilterRejectsAll(t *testing.T) {
	records := filterFixture()

	_, err := cli.ApplyFilters(t.Context(), records, []string{"mode=sea", "weight=100"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter key")
}

func TestApplyFiltersSkipsEmptyExpressions(t *testing.T) {
	records := filterFixture()

	result, err := cli.ApplyFilters(t.Context(), records, []string{"", "mode=air", ""})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "SHP-002", result[0].ID)
}
