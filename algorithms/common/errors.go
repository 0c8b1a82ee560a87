package common

import "errors"

var (
	// ErrInvalidArgument reports a parameter or input outside what an
	// operation accepts. The operation produced no output.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDegenerateInput reports input for which a computation has no
	// meaningful value (zero variance, zero energy).
	ErrDegenerateInput = errors.New("degenerate input")
)
