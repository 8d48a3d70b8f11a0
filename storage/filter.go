package storage

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/recallit/core"
)

// FilterOp is a comparison operator in the metadata filter language.
type FilterOp string

const (
	OpEq FilterOp = "$eq"
	OpGt FilterOp = "$gt"
	OpLt FilterOp = "$lt"
)

// Filterable chunk fields. Tags only support $eq (set membership);
// file_mtime supports ordering comparisons against RFC 3339 values.
const (
	FieldSourcePath = "source_path"
	FieldHeading    = "heading"
	FieldTags       = "tags"
	FieldFileMtime  = "file_mtime"
)

// Filter is a single predicate over chunk metadata, equivalent to
// {field: {op: value}}. All filters in a slice must match (conjunction).
type Filter struct {
	Field string
	Op    FilterOp
	Value string
}

// Validate checks that the filter names a known field and a supported operator.
func (f Filter) Validate() error {
	switch f.Field {
	case FieldSourcePath, FieldHeading:
		if f.Op != OpEq {
			return fmt.Errorf("%w: field %q only supports %s", ErrInvalidFilter, f.Field, OpEq)
		}
	case FieldTags:
		if f.Op != OpEq {
			return fmt.Errorf("%w: tags only support %s", ErrInvalidFilter, OpEq)
		}
	case FieldFileMtime:
		switch f.Op {
		case OpEq, OpGt, OpLt:
		default:
			return fmt.Errorf("%w: unknown operator %q", ErrInvalidFilter, f.Op)
		}
		if _, err := time.Parse(time.RFC3339, f.Value); err != nil {
			return fmt.Errorf("%w: file_mtime value must be RFC 3339: %v", ErrInvalidFilter, err)
		}
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidFilter, f.Field)
	}
	return nil
}

// Match reports whether the chunk satisfies the filter.
// Unknown fields never match.
func (f Filter) Match(chunk *core.Chunk) bool {
	if chunk == nil {
		return false
	}

	switch f.Field {
	case FieldSourcePath:
		return chunk.SourcePath == f.Value
	case FieldHeading:
		return strings.EqualFold(chunk.Heading, f.Value)
	case FieldTags:
		return slices.Contains(chunk.Tags, f.Value)
	case FieldFileMtime:
		want, err := time.Parse(time.RFC3339, f.Value)
		if err != nil {
			return false
		}
		switch f.Op {
		case OpEq:
			return chunk.FileMtime.Equal(want)
		case OpGt:
			return chunk.FileMtime.After(want)
		case OpLt:
			return chunk.FileMtime.Before(want)
		}
	}
	return false
}

// MatchAll reports whether the chunk satisfies every filter.
func MatchAll(filters []Filter, chunk *core.Chunk) bool {
	for _, f := range filters {
		if !f.Match(chunk) {
			return false
		}
	}
	return true
}
