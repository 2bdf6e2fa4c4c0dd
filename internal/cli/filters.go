package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/rshade/cargofocus/internal/emissions"
	"github.com/rshade/cargofocus/internal/logging"
)

// Record filter keys accepted by --filter expressions.
const (
	filterKeyMode        = "mode"
	filterKeyOrigin      = "origin"
	filterKeyDestination = "destination"
	filterKeyID          = "id"
)

// ValidateRecordFilter checks a "key=value" filter expression. The key must
// be one of mode, origin, destination, or id; a mode value must also name a
// known transport mode.
func ValidateRecordFilter(filter string) error {
	key, value, found := strings.Cut(filter, "=")
	if !found || key == "" || value == "" {
		return fmt.Errorf("invalid filter %q: want key=value", filter)
	}

	switch key {
	case filterKeyMode:
		if _, err := emissions.ParseTransportMode(value); err != nil {
			return fmt.Errorf("invalid filter %q: %w", filter, err)
		}
		return nil
	case filterKeyOrigin, filterKeyDestination, filterKeyID:
		return nil
	default:
		return fmt.Errorf("invalid filter key %q (valid: %s, %s, %s, %s)",
			key, filterKeyMode, filterKeyOrigin, filterKeyDestination, filterKeyID)
	}
}

// FilterRecords returns the records matching a single already-validated
// filter expression. Origin and destination compare case-insensitively;
// ids compare exactly.
func FilterRecords(records []emissions.ShipmentRecord, filter string) []emissions.ShipmentRecord {
	key, value, found := strings.Cut(filter, "=")
	if !found {
		return records
	}

	matched := make([]emissions.ShipmentRecord, 0, len(records))
	for _, rec := range records {
		if recordMatches(rec, key, value) {
			matched = append(matched, rec)
		}
	}
	return matched
}

func recordMatches(rec emissions.ShipmentRecord, key, value string) bool {
	switch key {
	case filterKeyMode:
		mode, err := emissions.ParseTransportMode(value)
		if err != nil {
			return false
		}
		return rec.TransportType == mode
	case filterKeyOrigin:
		return strings.EqualFold(rec.Origin, value)
	case filterKeyDestination:
		return strings.EqualFold(rec.Destination, value)
	case filterKeyID:
		return rec.ID == value
	default:
		return false
	}
}

// ApplyFilters validates and applies a slice of filter strings to a record
// set. All filters are validated upfront; if any filter is invalid an error
// is returned without applying any. Valid filters are then applied
// sequentially, each narrowing the record set. An empty filter slice
// returns the original records unchanged.
func ApplyFilters(
	ctx context.Context,
	records []emissions.ShipmentRecord,
	filters []string,
) ([]emissions.ShipmentRecord, error) {
	log := logging.FromContext(ctx)

	if len(filters) == 0 {
		return records, nil
	}

	for _, f := range filters {
		if f == "" {
			continue
		}
		if err := ValidateRecordFilter(f); err != nil {
			log.Warn().Ctx(ctx).
				Str("component", "cli").
				Str("operation", "apply_filters").
				Str("filter", f).
				Err(err).
				Msg("invalid filter expression")
			return nil, err
		}
	}

	result := records
	for _, f := range filters {
		if f == "" {
			continue
		}
		before := len(result)
		result = FilterRecords(result, f)
		log.Debug().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "apply_filters").
			Str("filter", f).
			Int("before", before).
			Int("after", len(result)).
			Msg("applied filter")
	}

	if len(result) == 0 && len(records) > 0 {
		log.Warn().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "apply_filters").
			Int("original_count", len(records)).
			Msg("no records match filter criteria")
	}

	return result, nil
}
