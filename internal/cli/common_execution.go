package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rshade/cargofocus/internal/config"
	"github.com/rshade/cargofocus/internal/emissions"
	"github.com/rshade/cargofocus/internal/engine"
	"github.com/rshade/cargofocus/internal/logging"
	"github.com/rshade/cargofocus/internal/provider"
)

// auditContext holds common context for audit logging within a command.
type auditContext struct {
	logger  logging.AuditLogger
	traceID string
	params  map[string]string
	start   time.Time
	command string
}

// newAuditContext creates a new audit context.
func newAuditContext(ctx context.Context, command string, params map[string]string) *auditContext {
	return &auditContext{
		logger:  logging.AuditLoggerFromContext(ctx),
		traceID: logging.TraceIDFromContext(ctx),
		params:  params,
		start:   time.Now(),
		command: command,
	}
}

// logFailure logs an audit entry for a failed operation.
func (a *auditContext) logFailure(ctx context.Context, err error) {
	entry := logging.NewAuditEntry(a.command, a.traceID).
		WithParameters(a.params).
		WithError(err.Error()).
		WithDuration(a.start)
	a.logger.Log(ctx, *entry)
}

// logSuccess logs an audit entry for a successful operation.
func (a *auditContext) logSuccess(ctx context.Context, count int, totalKG float64) {
	entry := logging.NewAuditEntry(a.command, a.traceID).
		WithParameters(a.params).
		WithSuccess(count, totalKG).
		WithDuration(a.start)
	a.logger.Log(ctx, *entry)
}

// buildSimulator assembles the scenario engine from the configured
// reference tables. A table error is a configuration error, not a
// per-record condition.
func buildSimulator(ctx context.Context, cfg *config.Config, audit *auditContext) (*engine.Simulator, error) {
	log := logging.FromContext(ctx)

	tables, err := cfg.ReferenceTables()
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Msg("failed to build reference tables")
		if audit != nil {
			audit.logFailure(ctx, err)
		}
		return nil, fmt.Errorf("building reference tables: %w", err)
	}

	return engine.NewSimulator(emissions.NewCalculator(tables)), nil
}

// fetchShipments resolves the configured provider and loads the record set.
// pathOverride, when non-empty, forces the file provider regardless of the
// configured source. Providers holding external resources are closed before
// returning.
func fetchShipments(
	ctx context.Context,
	cfg *config.Config,
	pathOverride string,
	audit *auditContext,
) ([]emissions.ShipmentRecord, error) {
	log := logging.FromContext(ctx)

	src, err := provider.FromConfig(cfg, pathOverride)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Str("source", cfg.Provider.Source).Msg("failed to resolve shipment provider")
		if audit != nil {
			audit.logFailure(ctx, err)
		}
		return nil, fmt.Errorf("resolving shipment provider: %w", err)
	}
	if closer, ok := src.(io.Closer); ok {
		defer func() {
			if closeErr := closer.Close(); closeErr != nil {
				log.Warn().Ctx(ctx).Err(closeErr).Str("source", src.Name()).Msg("failed to close shipment provider")
			}
		}()
	}

	records, err := src.FetchShipments(ctx)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Str("source", src.Name()).Msg("failed to fetch shipments")
		if audit != nil {
			audit.logFailure(ctx, err)
		}
		return nil, fmt.Errorf("fetching shipments: %w", err)
	}
	log.Debug().Ctx(ctx).Str("source", src.Name()).Int("record_count", len(records)).Msg("shipments loaded")

	return records, nil
}

// selectionPolicy resolves the effective empty-selection policy: the
// --strict-selection flag wins, otherwise the configured default applies.
func selectionPolicy(cfg *config.Config, strictFlag bool) (engine.SelectionPolicy, error) {
	if strictFlag {
		return engine.SelectionStrict, nil
	}
	policy, err := cfg.SelectionPolicy()
	if err != nil {
		return engine.SelectionFallback, fmt.Errorf("resolving selection policy: %w", err)
	}
	return policy, nil
}
