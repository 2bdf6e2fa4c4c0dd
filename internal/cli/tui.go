package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/cargofocus/internal/logging"
	"github.com/rshade/cargofocus/internal/provider"
	"github.com/rshade/cargofocus/internal/tui"
)

// NewTUICmd creates the "tui" subcommand: the interactive scenario
// explorer. It needs a real terminal and refuses to start without one.
func NewTUICmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Explore what-if scenarios interactively",
		Long: `Tui opens the interactive scenario explorer: cycle source and target
modes, toggle blanket optimization and strict selection, and watch the
baseline/preview comparison update live.

The explorer requires an interactive terminal; in scripts and pipelines
use 'cargofocus scenario' instead.`,
		Example: `  # Explore the configured shipment set
  cargofocus tui

  # Explore a manifest file
  cargofocus tui --source file --config overlay.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeTUI(cmd, source)
		},
	}

	cmd.Flags().StringVar(&source, "source", "",
		"Shipment source override: static, file, or postgres")

	return cmd
}

// executeTUI runs the scenario explorer program.
func executeTUI(cmd *cobra.Command, source string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) {
		return usageErrorf("the scenario explorer requires an interactive terminal; use 'cargofocus scenario' instead")
	}

	cfg, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}
	if source != "" {
		cfg.Provider.Source = source
	}

	audit := newAuditContext(ctx, "tui", map[string]string{"source": cfg.Provider.Source})

	sim, err := buildSimulator(ctx, cfg, audit)
	if err != nil {
		return err
	}

	src, err := provider.FromConfig(cfg, "")
	if err != nil {
		audit.logFailure(ctx, err)
		return fmt.Errorf("resolving shipment provider: %w", err)
	}
	if closer, ok := src.(io.Closer); ok {
		defer func() {
			if closeErr := closer.Close(); closeErr != nil {
				log.Warn().Ctx(ctx).Err(closeErr).Msg("failed to close shipment provider")
			}
		}()
	}

	log.Debug().Ctx(ctx).Str("operation", "tui").Str("source", src.Name()).Msg("starting scenario explorer")

	model := tui.NewExplorerModel(ctx, sim, src)
	program := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		audit.logFailure(ctx, err)
		return fmt.Errorf("running scenario explorer: %w", err)
	}

	affected := 0
	previewKG := 0.0
	if result := model.Result(); result != nil {
		affected = len(result.Affected)
		previewKG = result.PreviewKG
	}
	audit.logSuccess(ctx, affected, previewKG)

	return nil
}
