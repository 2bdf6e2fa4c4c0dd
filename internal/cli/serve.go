package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/cargofocus/internal/logging"
	"github.com/rshade/cargofocus/internal/mcp"
	"github.com/rshade/cargofocus/internal/provider"
)

// NewServeCmd creates the "serve" subcommand: an MCP server over stdio so
// chat assistants can call the engine's operations as tools.
func NewServeCmd() *cobra.Command {
	var stdio bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scenario engine over MCP",
		Long: `Serve starts a Model Context Protocol server over stdin/stdout. An MCP
client (a chat assistant, an editor integration) connects to the process
and calls simulate_scenario, emission_insights, optimization_opportunities,
and extract_intent directly.

Records come from the configured shipment provider, fetched fresh on every
tool call.`,
		Example: `  # Serve over stdio
  cargofocus serve --stdio

  # Serve a manifest file to the assistant
  cargofocus serve --stdio --config overlay.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !stdio {
				return usageErrorf("serve currently supports stdio transport only; pass --stdio")
			}
			return executeServe(cmd)
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false, "serve MCP over stdin/stdout")

	return cmd
}

// executeServe runs the MCP server until the client disconnects.
func executeServe(cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	cfg, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}

	sim, err := buildSimulator(ctx, cfg, nil)
	if err != nil {
		return err
	}

	src, err := provider.FromConfig(cfg, "")
	if err != nil {
		return fmt.Errorf("resolving shipment provider: %w", err)
	}
	if closer, ok := src.(io.Closer); ok {
		defer func() {
			if closeErr := closer.Close(); closeErr != nil {
				log.Warn().Ctx(ctx).Err(closeErr).Msg("failed to close shipment provider")
			}
		}()
	}

	policy, err := cfg.SelectionPolicy()
	if err != nil {
		return fmt.Errorf("resolving selection policy: %w", err)
	}

	log.Info().Ctx(ctx).Str("operation", "serve").Str("source", src.Name()).
		Msg("starting MCP server over stdio")

	srv := mcp.NewServer(cmd.Root().Version, sim, src, policy)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("running MCP server: %w", err)
	}

	log.Info().Ctx(ctx).Str("operation", "serve").Msg("MCP server stopped")
	return nil
}
