package advisor

type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrInvalidThreshold indicates a threshold outside its allowed range.
	ErrInvalidThreshold = constError("invalid advisor threshold")
)
