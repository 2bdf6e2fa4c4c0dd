// Package config loads, validates, and persists CargoFocus configuration.
//
// Configuration is YAML, resolved in layers: built-in defaults, the global
// file under the config directory (~/.cargofocus/config.yaml), an optional
// project-local overlay (.cargofocus/config.yaml found by walking up from
// the working directory), environment variables, and finally CLI flags
// applied by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rshade/cargofocus/internal/emissions"
	"github.com/rshade/cargofocus/internal/engine"
)

// CurrentSchemaVersion is the config schema this binary reads and writes.
// A config file with a newer major version is rejected.
const CurrentSchemaVersion = "1.0.0"

// Environment variable names honored by the config layer.
const (
	EnvHome        = "CARGOFOCUS_HOME"
	EnvLogLevel    = "CARGOFOCUS_LOG_LEVEL"
	EnvLogFormat   = "CARGOFOCUS_LOG_FORMAT"
	EnvDatabaseURL = "DATABASE_URL"
)

// Output format names accepted by output.default_format.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// Provider source names accepted by provider.source.
const (
	SourceStatic   = "static"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Selection policy names accepted by scenario.empty_selection.
const (
	PolicyFallback = "fallback"
	PolicyStrict   = "strict"
)

// Config is the root configuration document.
type Config struct {
	SchemaVersion string         `yaml:"schema_version"`
	Output        OutputConfig   `yaml:"output"`
	Logging       LoggingConfig  `yaml:"logging"`
	Tables        TablesConfig   `yaml:"tables"`
	Provider      ProviderConfig `yaml:"provider"`
	Scenario      ScenarioConfig `yaml:"scenario"`
}

// OutputConfig holds rendering defaults for CLI output.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Precision     int    `yaml:"precision"`
}

// TablesConfig overrides the built-in emission reference tables. An empty
// section leaves the defaults in place.
type TablesConfig struct {
	Factors           map[string]float64 `yaml:"factors"`
	DefaultDistanceKM float64            `yaml:"default_distance_km"`
	Routes            []RouteConfig      `yaml:"routes"`
}

// RouteConfig is one known route distance.
type RouteConfig struct {
	From string  `yaml:"from"`
	To   string  `yaml:"to"`
	KM   float64 `yaml:"km"`
}

// ProviderConfig selects where shipment records come from.
type ProviderConfig struct {
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

// ScenarioConfig holds simulation defaults.
type ScenarioConfig struct {
	EmptySelection string `yaml:"empty_selection"`
}

// DefaultConfig returns the built-in configuration: table output at two
// decimal places, info-level console logging, built-in reference tables,
// and the bundled demo shipments.
func DefaultConfig() *Config {
	return &Config{
		SchemaVersion: CurrentSchemaVersion,
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Precision:     2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Provider: ProviderConfig{
			Source: SourceStatic,
		},
		Scenario: ScenarioConfig{
			EmptySelection: PolicyFallback,
		},
	}
}

// New loads the effective configuration: defaults, overlaid by the global
// config file when present, then environment overrides. Load errors fall
// back to defaults so a broken config file never makes the CLI unusable;
// `cargofocus config validate` surfaces the underlying error.
func New() *Config {
	cfg := DefaultConfig()

	if path, err := GetConfigPath(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if loaded, loadErr := LoadFromFile(path); loadErr == nil {
				cfg = loaded
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// LoadFromFile reads, parses, and validates a config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the whole document: schema version compatibility, output
// settings, reference table overrides, provider selection, and scenario
// defaults.
func (c *Config) Validate() error {
	if err := c.validateSchemaVersion(); err != nil {
		return err
	}

	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON, FormatNDJSON:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutputFormat, c.Output.DefaultFormat)
	}
	if c.Output.Precision < 0 || c.Output.Precision > 6 {
		return fmt.Errorf("%w: %d", ErrInvalidPrecision, c.Output.Precision)
	}

	if _, err := c.ReferenceTables(); err != nil {
		return fmt.Errorf("tables: %w", err)
	}

	switch c.Provider.Source {
	case SourceStatic, SourceFile, SourcePostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProviderSource, c.Provider.Source)
	}

	if _, err := c.SelectionPolicy(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSchemaVersion() error {
	if c.SchemaVersion == "" {
		c.SchemaVersion = CurrentSchemaVersion
		return nil
	}

	fileVer, err := semver.NewVersion(c.SchemaVersion)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSchemaVersion, c.SchemaVersion, err)
	}
	currentVer := semver.MustParse(CurrentSchemaVersion)
	if fileVer.Major() > currentVer.Major() {
		return fmt.Errorf("%w: file has %s, this build understands %s",
			ErrIncompatibleSchema, c.SchemaVersion, CurrentSchemaVersion)
	}
	return nil
}

// ReferenceTables builds emission reference tables from the config,
// overlaying any configured factors, routes, and default distance onto the
// built-in defaults.
func (c *Config) ReferenceTables() (*emissions.ReferenceTables, error) {
	defaults := emissions.DefaultTables()

	factors := make(map[emissions.TransportMode]float64, len(defaults.Modes()))
	for _, mode := range defaults.Modes() {
		f, err := defaults.Factor(mode)
		if err != nil {
			return nil, err
		}
		factors[mode] = f
	}
	for name, factor := range c.Tables.Factors {
		mode, err := emissions.ParseTransportMode(name)
		if err != nil {
			return nil, fmt.Errorf("tables.factors: %w", err)
		}
		factors[mode] = factor
	}

	defaultKM := c.Tables.DefaultDistanceKM
	if defaultKM == 0 {
		defaultKM = defaults.DefaultDistance()
	}

	routes := emissions.DefaultRoutes()
	for _, r := range c.Tables.Routes {
		routes = append(routes, emissions.RoutePair{From: r.From, To: r.To, KM: r.KM})
	}

	return emissions.NewReferenceTables(factors, routes, defaultKM)
}

// SelectionPolicy maps scenario.empty_selection onto the engine's policy
// type. Empty means fallback.
func (c *Config) SelectionPolicy() (engine.SelectionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(c.Scenario.EmptySelection)) {
	case "", PolicyFallback:
		return engine.SelectionFallback, nil
	case PolicyStrict:
		return engine.SelectionStrict, nil
	default:
		return engine.SelectionFallback,
			fmt.Errorf("%w: %q", ErrUnknownSelectionPolicy, c.Scenario.EmptySelection)
	}
}

// applyEnvOverrides applies environment variables on top of file values.
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv(EnvLogFormat); format != "" {
		c.Logging.Format = format
	}
	if dsn := os.Getenv(EnvDatabaseURL); dsn != "" {
		c.Provider.DSN = dsn
	}
}
