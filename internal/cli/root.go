package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/cargofocus/internal/config"
	"github.com/rshade/cargofocus/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// UsageError marks a flag or argument validation failure. The binary maps
// it to a distinct exit code so scripts can tell bad invocations from
// runtime failures.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return e.Reason
}

// usageErrorf builds a UsageError from a format string.
func usageErrorf(format string, args ...any) *UsageError {
	return &UsageError{Reason: fmt.Sprintf(format, args...)}
}

// NewRootCmd creates the root Cobra command for the cargofocus CLI.
// It wires up logging, tracing, audit logging, and subcommands
// (analyze, scenario, opportunities, intent, tui, serve, config, db).
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:     "cargofocus",
		Short:   "CargoFocus shipment emissions CLI",
		Long:    "CargoFocus: Analyze shipment carbon emissions and explore what-if transport scenarios",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Resolve the project dir before any config loads; overlay
			// discovery and the config commands both read it.
			projectFlag, _ := cmd.Flags().GetString("project-dir")
			cwd, err := os.Getwd()
			if err != nil {
				cwd = "."
			}
			config.SetResolvedProjectDir(config.ResolveProjectDir(cmd.Context(), projectFlag, cwd))

			if output, _ := cmd.Flags().GetString("output"); output != "" {
				if err := validateOutputFormat(output); err != nil {
					return usageErrorf("%s", err.Error())
				}
			}

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("project-dir", "",
		"project directory containing .cargofocus/ (default: walk up from the working directory)")
	cmd.PersistentFlags().String("config", "",
		"extra config overlay applied on top of the effective configuration")
	cmd.PersistentFlags().String("log-level", "", "log level override (trace, debug, info, warn, error)")
	cmd.PersistentFlags().String("log-file", "", "log file path override")
	cmd.PersistentFlags().StringP("output", "o", "",
		"output format: table, json, ndjson (default from config)")
	cmd.PersistentFlags().Bool("no-color", false, "disable styled terminal output")

	cmd.AddCommand(
		NewAnalyzeCmd(), NewScenarioCmd(), NewOpportunitiesCmd(), NewIntentCmd(),
		NewTUICmd(), NewServeCmd(), newConfigCmd(), NewDBCmd(), NewSetupCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Analyze the configured shipment set
  cargofocus analyze

  # Analyze shipment files concurrently
  cargofocus analyze shipments-q1.json shipments-q2.json

  # Preview switching all air freight to sea
  cargofocus scenario --from air --to sea

  # Ask in plain words
  cargofocus scenario -- "what if we moved all air shipments to sea"

  # Rank per-route savings opportunities
  cargofocus opportunities --sort savings --limit 10

  # Explore scenarios interactively
  cargofocus tui

  # Serve the engine over MCP stdio
  cargofocus serve --stdio

  # Initialize configuration
  cargofocus config init`

// loadCommandConfig builds the effective configuration for one command
// run: defaults, global file, project overlay, environment, then the
// --config overlay when given.
func loadCommandConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewWithProjectDir(cmd.Context(), config.GetResolvedProjectDir())

	overlay, _ := cmd.Flags().GetString("config")
	if overlay != "" {
		if err := config.ShallowMergeYAML(cfg, overlay); err != nil {
			return nil, fmt.Errorf("applying config overlay %s: %w", overlay, err)
		}
	}
	return cfg, nil
}

// outputFormat resolves the effective output format: the --output flag
// when set, otherwise the configured default.
func outputFormat(cmd *cobra.Command, cfg *config.Config) string {
	if flagVal, err := cmd.Flags().GetString("output"); err == nil && flagVal != "" {
		return flagVal
	}
	if cfg != nil && cfg.Output.DefaultFormat != "" {
		return cfg.Output.DefaultFormat
	}
	return outputFormatTable
}

// colorDisabled reports whether --no-color was given.
func colorDisabled(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("no-color")
	return v
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd(), NewConfigShowCmd())
	return cmd
}
