package emissions

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for the emissions model. Compare with errors.Is().
var (
	// ErrUnknownMode indicates a transport mode with no entry in the factor
	// table. This is a configuration error: every mode a record can carry
	// must be priced at startup, so hitting this at calculation time is
	// fatal rather than a per-record fallback.
	ErrUnknownMode = constError("unknown transport mode")

	// ErrMissingFactor indicates a reference-table construction with no
	// emission factor for one of the required modes.
	ErrMissingFactor = constError("missing emission factor for mode")

	// ErrNegativeFactor indicates an emission factor below zero.
	ErrNegativeFactor = constError("negative emission factor")

	// ErrNegativeDistance indicates a route distance below zero.
	ErrNegativeDistance = constError("negative route distance")

	// ErrNonPositiveWeight indicates a shipment weight of zero or less.
	ErrNonPositiveWeight = constError("shipment weight must be positive")

	// ErrMissingField indicates a shipment record with a blank required field.
	ErrMissingField = constError("missing required shipment field")

	// ErrNegativeEmissions indicates an emissions figure below zero, which
	// the model cannot produce and equivalency display refuses to describe.
	ErrNegativeEmissions = constError("negative emissions figure")

	// ErrCalculationOverflow indicates a value too large to calculate safely.
	ErrCalculationOverflow = constError("calculation overflow")
)
