package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is derived from content using BLAKE2b hashing, so identical content
// always maps to the same identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkIDFor derives the chunk ID for a position within a source document.
// Chunk identity is keyed by (source path, index in document) so that
// re-ingesting a changed file overwrites its chunks instead of duplicating them.
func ChunkIDFor(sourcePath string, indexInDoc int) ID {
	return IDFromContent(fmt.Sprintf("(%s,%d)", sourcePath, indexInDoc))
}

// Chunk is a bounded passage of a source document and the atomic unit
// of retrieval. Chunks are immutable once stored; re-ingestion of a changed
// source produces new chunks under the same (SourcePath, IndexInDoc) keys.
type Chunk struct {
	Id          ID
	SourcePath  string // Path of the originating document
	Heading     string // Markdown heading of the section the chunk came from
	IndexInDoc  int    // Zero-based position among the document's chunks
	Text        string
	TokenCount  int
	CharCount   int
	Truncated   bool              // Set when a single oversized sentence was hard-truncated
	Tags        []string          // Tags from the document's frontmatter
	Frontmatter map[string]string // Remaining frontmatter fields
	Extra       map[string]string // Free-form extension fields, never conflated with the typed ones
	FileMtime   time.Time         // Modification time of the source file at ingestion
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// Key returns a string representation of the chunk's identity tuple
// as "(source_path,index)". This is used for generating deterministic IDs.
func (c *Chunk) Key() string {
	return fmt.Sprintf("(%s,%d)", c.SourcePath, c.IndexInDoc)
}

// EmbeddingRecord holds the embedding vector for a chunk under a specific model.
// One record exists per chunk per model; records are regenerated, never patched,
// when the model changes.
type EmbeddingRecord struct {
	ChunkId   ID
	Vector    []float32
	ModelName string
	CreatedAt time.Time
}

// SearchSource identifies which retrieval mode produced a search result.
type SearchSource string

const (
	SourceSemantic SearchSource = "semantic"
	SourceKeyword  SearchSource = "keyword"
	SourceTag      SearchSource = "tag"
	SourceHybrid   SearchSource = "hybrid"
)

// SearchResult is a transient retrieval hit produced fresh per query.
// Similarity is in [-1,1] for semantic hits (cosine) and [0,1] for the
// other sources. Results are never persisted.
type SearchResult struct {
	Chunk      *Chunk
	Similarity float32
	Source     SearchSource
}

// RerankedResult is a SearchResult after cross-encoder re-ranking.
// The original similarity remains inspectable; FinalScore is a weighted
// combination, never a pure overwrite.
type RerankedResult struct {
	SearchResult
	CrossScore float64 // Batch-normalized cross-encoder score in [0,1]
	FinalScore float64
	Degraded   bool // True when the cross encoder was unavailable and similarity was used instead
}

// QualityLevel classifies an overall quality score.
type QualityLevel string

const (
	QualityExcellent QualityLevel = "excellent"
	QualityGood      QualityLevel = "good"
	QualityFair      QualityLevel = "fair"
	QualityPoor      QualityLevel = "poor"
)

// LevelForScore maps an overall score to its quality level.
func LevelForScore(score float64) QualityLevel {
	switch {
	case score >= 0.8:
		return QualityExcellent
	case score >= 0.6:
		return QualityGood
	case score >= 0.4:
		return QualityFair
	default:
		return QualityPoor
	}
}

// SubScores holds the five independent quality axes, each in [0,1].
type SubScores struct {
	Basic        float64
	Semantic     float64
	Relevance    float64
	Completeness float64
	Coherence    float64
}

// QualityReport scores a (query, response) pair. Reports are produced once
// per pair and appended to an append-only history; they are never mutated
// after creation.
type QualityReport struct {
	Id              ID
	Query           string
	Response        string
	OverallScore    float64
	Level           QualityLevel
	SubScores       SubScores
	Recommendations []string
	Degraded        bool // True when the embedder was unavailable during evaluation
	CreatedAt       time.Time
}

// ReportIDFor derives the report ID for a (query, response) pair.
func ReportIDFor(query, response string) ID {
	return IDFromContent(query + "\x00" + response)
}

// SourceState records the last ingested state of a source file.
// It is used to skip re-ingestion of unchanged files.
type SourceState struct {
	SourcePath string
	FileMtime  time.Time
	ChunkCount int
	UpdatedAt  time.Time
}
