package secrettoken

import "errors"

var (
	// ErrInvalidLength indicates a non-positive token byte length.
	ErrInvalidLength = errors.New("invalid token length")
)
