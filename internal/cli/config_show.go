package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/cargofocus/internal/config"
)

// NewConfigShowCmd creates the config show command. It prints the effective
// configuration after all layers (defaults, global file, project overlay,
// environment, --config) have been applied.
func NewConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Show resolves the configuration the same way every other command does —
defaults, the global file, a project-local overlay, environment variables,
and the --config flag — and prints the merged result.`,
		Example: `  # Print the effective configuration as YAML
  cargofocus config show

  # Print as JSON
  cargofocus config show --output json`,
		RunE: runConfigShow,
	}

	return cmd
}

// runConfigShow prints the merged configuration document.
func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}

	// The DSN may embed credentials; never print it.
	shown := *cfg
	shown.Provider.DSN = ""
	cfg = &shown

	format := outputFormat(cmd, cfg)
	switch format {
	case outputFormatJSON:
		return renderJSON(cmd.OutOrStdout(), configDocument(cfg))
	case outputFormatNDJSON:
		return renderNDJSON(cmd.OutOrStdout(), configDocument(cfg))
	default:
		out, marshalErr := yaml.Marshal(cfg)
		if marshalErr != nil {
			return fmt.Errorf("rendering configuration: %w", marshalErr)
		}
		_, writeErr := cmd.OutOrStdout().Write(out)
		return writeErr
	}
}

// configDocument reshapes the config for JSON output. The Config struct
// carries yaml tags only, so a field-by-field map keeps the JSON keys in
// the same snake_case the YAML file uses.
func configDocument(cfg *config.Config) map[string]any {
	return map[string]any{
		"schema_version": cfg.SchemaVersion,
		"output": map[string]any{
			"default_format": cfg.Output.DefaultFormat,
			"precision":      cfg.Output.Precision,
		},
		"logging": map[string]any{
			"level":  cfg.Logging.Level,
			"format": cfg.Logging.Format,
			"file":   cfg.Logging.File,
			"audit": map[string]any{
				"enabled": cfg.Logging.Audit.Enabled,
				"file":    cfg.Logging.Audit.File,
			},
		},
		"tables": map[string]any{
			"factors":             cfg.Tables.Factors,
			"default_distance_km": cfg.Tables.DefaultDistanceKM,
			"routes":              cfg.Tables.Routes,
		},
		// DSN is omitted: it may embed credentials.
		"provider": map[string]any{
			"source": cfg.Provider.Source,
			"path":   cfg.Provider.Path,
		},
		"scenario": map[string]any{
			"empty_selection": cfg.Scenario.EmptySelection,
		},
	}
}
