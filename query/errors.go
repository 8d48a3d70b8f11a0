package query

import "errors"

var (
	// ErrEmptyQuery indicates a blank query was rejected before any
	// expansion or retrieval work.
	ErrEmptyQuery = errors.New("query is empty")
)
