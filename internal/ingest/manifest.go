// Package ingest loads shipment manifests from disk and validates them
// into record sets the engine can consume.
package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/cargofocus/internal/emissions"
	"github.com/rshade/cargofocus/internal/logging"
)

// MaxManifestBytes caps how much of a manifest file is read. Shipment
// manifests are logistics exports, not bulk archives; anything larger is
// almost certainly the wrong file.
const MaxManifestBytes = 16 << 20

// constError is a sentinel error type that can be declared as a constant.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for manifest loading.
const (
	// ErrManifestTooLarge indicates the file exceeds MaxManifestBytes.
	ErrManifestTooLarge = constError("manifest file too large")

	// ErrUnknownFormat indicates the file extension maps to no supported
	// manifest format.
	ErrUnknownFormat = constError("unknown manifest format")
)

// Format identifies a manifest encoding.
type Format string

// Supported manifest encodings.
const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatNDJSON Format = "ndjson"
)

// Manifest is the wrapped document form: a named shipment set. Bare
// top-level arrays are also accepted.
type Manifest struct {
	Name      string                     `json:"name" yaml:"name"`
	Shipments []emissions.ShipmentRecord `json:"shipments" yaml:"shipments"`
}

// DetectFormat maps a file path to its manifest format by extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".ndjson", ".jsonl":
		return FormatNDJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// LoadShipments loads and validates the shipment manifest at path.
func LoadShipments(path string) ([]emissions.ShipmentRecord, error) {
	return LoadShipmentsWithContext(context.Background(), path)
}

// LoadShipmentsWithContext loads and validates the shipment manifest at
// path, logging progress to the context's logger. The format is detected
// from the file extension.
func LoadShipmentsWithContext(ctx context.Context, path string) ([]emissions.ShipmentRecord, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Str("operation", "load_manifest").
		Str("manifest_path", path).
		Msg("loading shipment manifest")

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		log.Error().
			Ctx(ctx).
			Str("component", "ingest").
			Err(err).
			Str("manifest_path", path).
			Msg("failed to stat manifest file")
		return nil, fmt.Errorf("reading manifest file: %w", err)
	}
	if info.Size() > MaxManifestBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)",
			ErrManifestTooLarge, path, info.Size(), MaxManifestBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().
			Ctx(ctx).
			Str("component", "ingest").
			Err(err).
			Str("manifest_path", path).
			Msg("failed to read manifest file")
		return nil, fmt.Errorf("reading manifest file: %w", err)
	}

	records, err := ParseShipmentsWithContext(ctx, data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return records, nil
}

// ParseShipments parses and validates manifest bytes in the given format.
func ParseShipments(data []byte, format Format) ([]emissions.ShipmentRecord, error) {
	return ParseShipmentsWithContext(context.Background(), data, format)
}

// ParseShipmentsWithContext parses and validates manifest bytes in the
// given format with logging context. Both a bare top-level array of
// records and a wrapped {name, shipments} document are accepted.
func ParseShipmentsWithContext(ctx context.Context, data []byte, format Format) ([]emissions.ShipmentRecord, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Str("operation", "parse_manifest").
		Str("format", string(format)).
		Int("data_size_bytes", len(data)).
		Msg("parsing shipment manifest")

	var (
		records []emissions.ShipmentRecord
		err     error
	)
	switch format {
	case FormatJSON:
		records, err = parseJSON(data)
	case FormatYAML:
		records, err = parseYAML(data)
	case FormatNDJSON:
		records, err = parseNDJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		log.Error().
			Ctx(ctx).
			Str("component", "ingest").
			Str("operation", "parse_manifest").
			Err(err).
			Msg("failed to parse manifest")
		return nil, err
	}

	if err := validateAll(records); err != nil {
		return nil, err
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Int("record_count", len(records)).
		Msg("manifest parsed successfully")

	return records, nil
}

// parseJSON accepts either a bare array or a wrapped manifest document.
func parseJSON(data []byte) ([]emissions.ShipmentRecord, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []emissions.ShipmentRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parsing shipment array: %w", err)
		}
		return records, nil
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest document: %w", err)
	}
	return manifest.Shipments, nil
}

// parseYAML accepts either a bare sequence or a wrapped manifest document.
func parseYAML(data []byte) ([]emissions.ShipmentRecord, error) {
	var records []emissions.ShipmentRecord
	if err := yaml.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest document: %w", err)
	}
	return manifest.Shipments, nil
}

// parseNDJSON reads one record per line, skipping blank lines.
func parseNDJSON(data []byte) ([]emissions.ShipmentRecord, error) {
	var records []emissions.ShipmentRecord

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), MaxManifestBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record emissions.ShipmentRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNo, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning manifest: %w", err)
	}
	return records, nil
}

// validateAll runs per-record validation, reporting the failing record by
// index and ID so manifests are fixable without a debugger.
func validateAll(records []emissions.ShipmentRecord) error {
	for i, record := range records {
		if err := record.Validate(); err != nil {
			return fmt.Errorf("shipment %d (%s): %w", i, record.ID, err)
		}
	}
	return nil
}
