package greenops

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors that can be compared with errors.Is().
var (
	// ErrInvalidUnit indicates an unrecognized display unit.
	ErrInvalidUnit = constError("invalid carbon unit")

	// ErrNegativeValue indicates a negative carbon value.
	ErrNegativeValue = constError("negative carbon value")

	// ErrUnknownEquivalency indicates an unrecognized equivalency type name.
	ErrUnknownEquivalency = constError("unknown equivalency type")

	// ErrCalculationOverflow indicates a value too large to calculate safely.
	ErrCalculationOverflow = constError("calculation overflow")
)
