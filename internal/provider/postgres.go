package provider

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver

	"github.com/rshade/cargofocus/internal/emissions"
	"github.com/rshade/cargofocus/internal/logging"
)

// Postgres reads shipment records from a shipments table. The connection
// pool is sized for CLI-style bursts, not a long-lived service.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection pool for the given DSN. The connection is
// not verified here; the first fetch surfaces connectivity errors with the
// operation that needed the database.
func NewPostgres(dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres pool: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Postgres{db: db}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// Ping verifies the database is reachable.
func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging shipment store: %w", err)
	}
	return nil
}

// Name identifies the source kind.
func (p *Postgres) Name() string { return "postgres" }

// FetchShipments loads and validates every shipment row.
func (p *Postgres) FetchShipments(ctx context.Context) ([]emissions.ShipmentRecord, error) {
	log := logging.FromContext(ctx)

	rows, err := p.db.QueryContext(ctx, `
		SELECT shipment_ref, origin, destination, weight_kg, transport_type, departed_at
		FROM shipments
		ORDER BY shipment_ref`)
	if err != nil {
		return nil, fmt.Errorf("querying shipments: %w", err)
	}
	defer rows.Close()

	var records []emissions.ShipmentRecord
	for rows.Next() {
		var (
			id, origin, destination, mode string
			weight                        float64
			departedAt                    sql.NullTime
		)
		if err := rows.Scan(&id, &origin, &destination, &weight, &mode, &departedAt); err != nil {
			return nil, fmt.Errorf("scanning shipment row: %w", err)
		}

		record, err := recordFromRow(id, origin, destination, weight, mode, departedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shipment rows: %w", err)
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "provider").
		Str("source", p.Name()).
		Int("record_count", len(records)).
		Msg("fetched shipments from postgres")

	return records, nil
}

// recordFromRow converts one shipments row into a validated record.
func recordFromRow(id, origin, destination string, weight float64, mode string, departedAt sql.NullTime) (emissions.ShipmentRecord, error) {
	transport, err := emissions.ParseTransportMode(mode)
	if err != nil {
		return emissions.ShipmentRecord{}, fmt.Errorf("shipment %s: %w", id, err)
	}

	record := emissions.ShipmentRecord{
		ID:            id,
		Origin:        origin,
		Destination:   destination,
		WeightKG:      weight,
		TransportType: transport,
	}
	if departedAt.Valid {
		record.Timestamp = departedAt.Time.UTC().Format(time.RFC3339)
	}

	if err := record.Validate(); err != nil {
		return emissions.ShipmentRecord{}, err
	}
	return record, nil
}

// EnsureSchema creates the shipments table when it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS shipments (
			id UUID PRIMARY KEY,
			shipment_ref TEXT NOT NULL UNIQUE,
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			weight_kg DOUBLE PRECISION NOT NULL CHECK (weight_kg > 0),
			transport_type TEXT NOT NULL CHECK (transport_type IN ('air', 'sea', 'land')),
			departed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("creating shipments table: %w", err)
	}
	return nil
}

// InsertShipments upserts records by shipment_ref inside one transaction,
// returning how many rows were written.
func (p *Postgres) InsertShipments(ctx context.Context, records []emissions.ShipmentRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	written := 0
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return 0, err
		}

		var departedAt any
		if record.Timestamp != "" {
			ts, parseErr := time.Parse(time.RFC3339, record.Timestamp)
			if parseErr != nil {
				return 0, fmt.Errorf("shipment %s: parsing timestamp: %w", record.ID, parseErr)
			}
			departedAt = ts
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO shipments (id, shipment_ref, origin, destination, weight_kg, transport_type, departed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (shipment_ref) DO UPDATE SET
				origin = EXCLUDED.origin,
				destination = EXCLUDED.destination,
				weight_kg = EXCLUDED.weight_kg,
				transport_type = EXCLUDED.transport_type,
				departed_at = EXCLUDED.departed_at`,
			uuid.New(), record.ID, record.Origin, record.Destination,
			record.WeightKG, record.TransportType.String(), departedAt)
		if err != nil {
			return 0, fmt.Errorf("inserting shipment %s: %w", record.ID, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing shipments: %w", err)
	}
	return written, nil
}

var _ Provider = (*Postgres)(nil)
