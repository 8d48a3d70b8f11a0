package quality

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidWeights is returned when the axis weights do not sum to 1.
	ErrInvalidWeights = errors.New("quality weights must be non-negative and sum to 1")

	// ErrReportRepositoryRequired is returned when trend analysis is
	// requested without a report repository.
	ErrReportRepositoryRequired = errors.New("report repository required")
)
