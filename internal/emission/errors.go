package emission

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Validation errors returned at ingestion. The emission math itself never
// returns them; callers validate before a record enters a store.
var (
	// ErrNegativeValue indicates a negative activity counter.
	ErrNegativeValue = constError("activity value cannot be negative")

	// ErrNonFiniteValue indicates a NaN or infinite storage figure.
	ErrNonFiniteValue = constError("activity value must be finite")

	// ErrMissingUser indicates a record without an owning user.
	ErrMissingUser = constError("activity record requires a user id")

	// ErrMissingDate indicates a record without a date.
	ErrMissingDate = constError("activity record requires a date")

	// ErrNegativeCoefficient indicates an emission coefficient below zero.
	ErrNegativeCoefficient = constError("emission coefficient cannot be negative")
)
