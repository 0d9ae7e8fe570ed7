package analyzer

import "errors"

var (
	// ErrInvalidInput indicates a missing or zero-area image
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfiguration indicates options that cannot be applied to the image
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInsufficientData indicates fewer than two usable box-count samples
	ErrInsufficientData = errors.New("insufficient data")
)
