package rerank

import "errors"

var (
	// ErrCrossEncoderRequired is returned when no cross encoder is provided.
	ErrCrossEncoderRequired = errors.New("cross encoder is required")

	// ErrInvalidAlpha is returned when the blend weight is outside [0,1].
	ErrInvalidAlpha = errors.New("alpha must be in [0,1]")
)
