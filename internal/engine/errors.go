package engine

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for scenario evaluation. Compare with errors.Is().
var (
	// ErrDegenerateBaseline indicates a zero-emissions baseline combined
	// with a scenario that changes the total, which makes percent-change
	// undefined. The simulator fails explicitly instead of propagating a
	// non-numeric result.
	ErrDegenerateBaseline = constError("degenerate baseline: zero original emissions with nonzero delta")

	// ErrNilRequest indicates a nil scenario request.
	ErrNilRequest = constError("scenario request cannot be nil")
)
