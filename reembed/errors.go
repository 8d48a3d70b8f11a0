package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrModelNameRequired is returned when no target model name is given.
	ErrModelNameRequired = errors.New("model name required")
)
