package config

// constError is a sentinel error type that can be declared as a constant.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for configuration validation.
const (
	// ErrInvalidSchemaVersion indicates schema_version is not valid semver.
	ErrInvalidSchemaVersion = constError("invalid schema_version")

	// ErrIncompatibleSchema indicates the config file was written by a
	// newer major schema than this binary understands.
	ErrIncompatibleSchema = constError("incompatible config schema version")

	// ErrUnknownOutputFormat indicates output.default_format is not one of
	// table, json, or ndjson.
	ErrUnknownOutputFormat = constError("unknown output format")

	// ErrInvalidPrecision indicates output.precision is outside 0..6.
	ErrInvalidPrecision = constError("output precision out of range")

	// ErrUnknownProviderSource indicates provider.source is not one of
	// static, file, or postgres.
	ErrUnknownProviderSource = constError("unknown provider source")

	// ErrUnknownSelectionPolicy indicates scenario.empty_selection is not
	// one of fallback or strict.
	ErrUnknownSelectionPolicy = constError("unknown empty-selection policy")
)
