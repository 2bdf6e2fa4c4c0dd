package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/cargofocus/internal/config"
	"github.com/rshade/cargofocus/internal/emissions"
)

// NewConfigValidateCmd creates the config validate command for validating
// configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration for syntax and semantic correctness.

This includes:
- Schema version compatibility
- Output format and precision
- Emission reference tables (every transport mode must carry a factor)
- Shipment provider selection (static, file, postgres)
- Scenario empty-selection policy`,
		Example: `  # Validate current configuration
  cargofocus config validate

  # Validate and show detailed information
  cargofocus config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	// The reference tables only fail at build time, so construct them here
	// rather than letting the first analysis surface a bad overlay.
	tables, err := cfg.ReferenceTables()
	if err != nil {
		return fmt.Errorf("reference table validation failed: %w", err)
	}

	if _, err := cfg.SelectionPolicy(); err != nil {
		return fmt.Errorf("scenario policy validation failed: %w", err)
	}

	cmd.Println("Configuration is valid")

	if verbose {
		printConfigDetails(cmd, cfg, tables)
	}

	return nil
}

// printConfigDetails prints the effective configuration summary for
// --verbose validation runs.
func printConfigDetails(cmd *cobra.Command, cfg *config.Config, tables *emissions.ReferenceTables) {
	cmd.Println()
	cmd.Println("Details:")
	cmd.Printf("  Schema version: %s\n", cfg.SchemaVersion)
	cmd.Printf("  Output format: %s (precision %d)\n", cfg.Output.DefaultFormat, cfg.Output.Precision)
	cmd.Printf("  Log level: %s\n", cfg.Logging.Level)

	printTableDetails(cmd, cfg, tables)
	printProviderDetails(cmd, cfg)
}

// printTableDetails prints the emission reference table summary.
func printTableDetails(cmd *cobra.Command, cfg *config.Config, tables *emissions.ReferenceTables) {
	cmd.Println("  Emission factors (g CO2e per kg per km):")
	for _, mode := range tables.Modes() {
		factor, err := tables.Factor(mode)
		if err != nil {
			continue
		}
		cmd.Printf("    - %s: %g\n", mode, factor)
	}

	routeCount := len(emissions.DefaultRoutes())
	if len(cfg.Tables.Routes) > 0 {
		routeCount = len(cfg.Tables.Routes)
	}
	cmd.Printf("  Known routes: %d (default distance %g km)\n", routeCount, tables.DefaultDistance())
}

// printProviderDetails prints the shipment provider summary.
func printProviderDetails(cmd *cobra.Command, cfg *config.Config) {
	switch cfg.Provider.Source {
	case config.SourceFile:
		cmd.Printf("  Provider: file (%s)\n", cfg.Provider.Path)
	case config.SourcePostgres:
		cmd.Println("  Provider: postgres")
	default:
		cmd.Println("  Provider: static (bundled demo shipments)")
	}
	cmd.Printf("  Empty-selection policy: %s\n", cfg.Scenario.EmptySelection)
}
