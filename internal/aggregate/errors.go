package aggregate

type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrUnknownPeriod indicates a period name other than week, month, or all.
	ErrUnknownPeriod = constError("unknown period")

	// ErrInvalidWindow indicates a non-positive window length.
	ErrInvalidWindow = constError("invalid window configuration")
)
