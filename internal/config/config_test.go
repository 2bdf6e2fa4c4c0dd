package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cargofocus/internal/emissions"
	"github.com/rshade/cargofocus/internal/engine"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, CurrentSchemaVersion, cfg.SchemaVersion)
	assert.Equal(t, FormatTable, cfg.Output.DefaultFormat)
	assert.Equal(t, 2, cfg.Output.Precision)
	assert.Equal(t, SourceStatic, cfg.Provider.Source)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Output.DefaultFormat = FormatJSON
	cfg.Logging.Level = "debug"
	cfg.Tables.Routes = []RouteConfig{{From: "oslo", To: "bergen", KM: 460}}
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, loaded.Output.DefaultFormat)
	assert.Equal(t, "debug", loaded.Logging.Level)
	require.Len(t, loaded.Tables.Routes, 1)
	assert.Equal(t, "oslo", loaded.Tables.Routes[0].From)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "unknown output format",
			mutate:  func(c *Config) { c.Output.DefaultFormat = "xml" },
			wantErr: ErrUnknownOutputFormat,
		},
		{
			name:    "precision too high",
			mutate:  func(c *Config) { c.Output.Precision = 9 },
			wantErr: ErrInvalidPrecision,
		},
		{
			name:    "negative precision",
			mutate:  func(c *Config) { c.Output.Precision = -1 },
			wantErr: ErrInvalidPrecision,
		},
		{
			name:    "garbage schema version",
			mutate:  func(c *Config) { c.SchemaVersion = "not-semver" },
			wantErr: ErrInvalidSchemaVersion,
		},
		{
			name:    "newer major schema",
			mutate:  func(c *Config) { c.SchemaVersion = "2.0.0" },
			wantErr: ErrIncompatibleSchema,
		},
		{
			name:    "unknown provider source",
			mutate:  func(c *Config) { c.Provider.Source = "kafka" },
			wantErr: ErrUnknownProviderSource,
		},
		{
			name:    "unknown selection policy",
			mutate:  func(c *Config) { c.Scenario.EmptySelection = "explode" },
			wantErr: ErrUnknownSelectionPolicy,
		},
		{
			name:    "unknown factor mode",
			mutate:  func(c *Config) { c.Tables.Factors = map[string]float64{"rail": 0.02} },
			wantErr: emissions.ErrUnknownMode,
		},
		{
			name: "negative route distance",
			mutate: func(c *Config) {
				c.Tables.Routes = []RouteConfig{{From: "a", To: "b", KM: -1}}
			},
			wantErr: emissions.ErrNegativeDistance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateAcceptsOlderMinorSchema(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SchemaVersion = "0.9.0"
	assert.NoError(t, cfg.Validate())
}

func TestValidateFillsEmptySchemaVersion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SchemaVersion = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, CurrentSchemaVersion, cfg.SchemaVersion)
}

func TestReferenceTablesDefaults(t *testing.T) {
	cfg := DefaultConfig()
	tables, err := cfg.ReferenceTables()
	require.NoError(t, err)

	f, err := tables.Factor(emissions.ModeSea)
	require.NoError(t, err)
	assert.InDelta(t, emissions.DefaultSeaFactor, f, 0.0001)

	km, exact := tables.Distance("shanghai", "rotterdam")
	assert.True(t, exact)
	assert.InDelta(t, 12000, km, 0.0001)
}

func TestReferenceTablesOverlay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tables.Factors = map[string]float64{"land": 0.001}
	cfg.Tables.DefaultDistanceKM = 750
	cfg.Tables.Routes = []RouteConfig{{From: "oslo", To: "bergen", KM: 460}}

	tables, err := cfg.ReferenceTables()
	require.NoError(t, err)

	// The overridden land factor undercuts sea, changing the blanket mode.
	assert.Equal(t, emissions.ModeLand, tables.LowestFactorMode())

	// Untouched factors keep their defaults.
	f, err := tables.Factor(emissions.ModeAir)
	require.NoError(t, err)
	assert.InDelta(t, emissions.DefaultAirFactor, f, 0.0001)

	km, exact := tables.Distance("bergen", "oslo")
	assert.True(t, exact)
	assert.InDelta(t, 460, km, 0.0001)

	km, exact = tables.Distance("nowhere", "elsewhere")
	assert.False(t, exact)
	assert.InDelta(t, 750, km, 0.0001)
}

func TestSelectionPolicy(t *testing.T) {
	tests := []struct {
		value string
		want  engine.SelectionPolicy
	}{
		{value: "", want: engine.SelectionFallback},
		{value: "fallback", want: engine.SelectionFallback},
		{value: "Strict", want: engine.SelectionStrict},
		{value: "  strict  ", want: engine.SelectionStrict},
	}

	for _, tt := range tests {
		t.Run("value "+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Scenario.EmptySelection = tt.value
			got, err := cfg.SelectionPolicy()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "trace")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvDatabaseURL, "postgres://localhost:5432/cargofocus")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "trace", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "postgres://localhost:5432/cargofocus", cfg.Provider.DSN)
}

func TestNewUsesGlobalConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	cfg := DefaultConfig()
	cfg.Output.Precision = 4
	require.NoError(t, cfg.Save(filepath.Join(home, "config.yaml")))

	got := New()
	assert.Equal(t, 4, got.Output.Precision)
}

func TestNewFallsBackOnBrokenFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(":::not yaml"), 0600))

	got := New()
	assert.Equal(t, FormatTable, got.Output.DefaultFormat)
}
