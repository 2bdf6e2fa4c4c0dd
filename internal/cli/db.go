package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/cargofocus/internal/logging"
	"github.com/rshade/cargofocus/internal/provider"
)

// NewDBCmd creates the "db" command group for managing the optional
// postgres shipment store.
func NewDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the postgres shipment store",
		Long: `The db commands manage the optional postgres-backed shipment store used
when provider.source is "postgres". The DSN comes from the configuration
file or the DATABASE_URL environment variable.`,
	}

	cmd.AddCommand(newDBInitCmd())
	return cmd
}

// newDBInitCmd creates the "db init" subcommand.
func newDBInitCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the shipments schema",
		Long: `Init creates the shipments table if it does not exist. With --seed it also
inserts the bundled demo shipments so the postgres provider has data to
serve immediately.`,
		Example: `  # Create the schema
  cargofocus db init

  # Create the schema and load the demo shipments
  cargofocus db init --seed`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeDBInit(cmd, seed)
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "insert the bundled demo shipments after creating the schema")

	return cmd
}

// executeDBInit creates the schema and optionally seeds demo data.
func executeDBInit(cmd *cobra.Command, seed bool) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	cfg, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}

	audit := newAuditContext(ctx, "db init", map[string]string{"seed": fmt.Sprintf("%t", seed)})

	pg, err := provider.NewPostgres(cfg.Provider.DSN)
	if err != nil {
		audit.logFailure(ctx, err)
		return fmt.Errorf("opening shipment store: %w", err)
	}
	defer func() {
		if closeErr := pg.Close(); closeErr != nil {
			log.Warn().Ctx(ctx).Err(closeErr).Msg("failed to close shipment store")
		}
	}()

	if err := pg.EnsureSchema(ctx); err != nil {
		audit.logFailure(ctx, err)
		return fmt.Errorf("creating shipments schema: %w", err)
	}
	cmd.Println("Shipments schema ready")

	inserted := 0
	if seed {
		inserted, err = pg.InsertShipments(ctx, provider.DemoShipments())
		if err != nil {
			audit.logFailure(ctx, err)
			return fmt.Errorf("seeding demo shipments: %w", err)
		}
		cmd.Printf("Seeded %d demo shipments\n", inserted)
	}

	audit.logSuccess(ctx, inserted, 0)
	log.Info().Ctx(ctx).Str("operation", "db_init").Bool("seed", seed).Int("inserted", inserted).
		Dur("duration_ms", time.Since(audit.start)).Msg("shipment store initialized")

	return nil
}
