package tracker

import "errors"

var (
	// ErrInvalidInput wraps validation failures on submitted activity.
	ErrInvalidInput = errors.New("invalid activity input")

	// ErrInvalidSettings wraps validation failures on service settings.
	ErrInvalidSettings = errors.New("invalid tracker settings")
)
