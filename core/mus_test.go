package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkMUS_RoundTrip(t *testing.T) {
	chunk := Chunk{
		Id:          ChunkIDFor("notes/math/platonism.md", 3),
		SourcePath:  "notes/math/platonism.md",
		Heading:     "Objections",
		IndexInDoc:  3,
		Text:        "Benacerraf's dilemma challenges platonist epistemology.",
		TokenCount:  11,
		CharCount:   55,
		Truncated:   true,
		Tags:        []string{"philosophy", "math"},
		Frontmatter: map[string]string{"author": "me", "status": "draft"},
		FileMtime:   time.Date(2026, 1, 12, 9, 30, 0, 0, time.UTC),
		InsertedAt:  time.Date(2026, 1, 12, 10, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 1, 12, 10, 0, 0, 0, time.UTC),
	}

	buf := make([]byte, ChunkMUS.Size(chunk))
	n := ChunkMUS.Marshal(chunk, buf)
	require.Equal(t, len(buf), n)

	got, n, err := ChunkMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, chunk, got)
}

func TestChunkMUS_EmptyCollections(t *testing.T) {
	chunk := Chunk{
		Id:         ChunkIDFor("a.md", 0),
		SourcePath: "a.md",
		IndexInDoc: 0,
		Text:       "text",
		TokenCount: 1,
		CharCount:  4,
	}

	buf := make([]byte, ChunkMUS.Size(chunk))
	ChunkMUS.Marshal(chunk, buf)

	got, _, err := ChunkMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
	assert.Empty(t, got.Frontmatter)
	assert.Equal(t, chunk.Text, got.Text)
}

func TestEmbeddingRecordMUS_RoundTrip(t *testing.T) {
	rec := EmbeddingRecord{
		ChunkId:   ChunkIDFor("a.md", 1),
		Vector:    []float32{0.25, -0.5, 0.125},
		ModelName: "embeddinggemma",
		CreatedAt: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
	}

	buf := make([]byte, EmbeddingRecordMUS.Size(rec))
	n := EmbeddingRecordMUS.Marshal(rec, buf)
	require.Equal(t, len(buf), n)

	got, _, err := EmbeddingRecordMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestQualityReportMUS_RoundTrip(t *testing.T) {
	report := QualityReport{
		Id:           ReportIDFor("query", "response"),
		Query:        "query",
		Response:     "response",
		OverallScore: 0.73,
		Level:        QualityGood,
		SubScores: SubScores{
			Basic:        0.6,
			Semantic:     0.8,
			Relevance:    0.75,
			Completeness: 0.7,
			Coherence:    0.65,
		},
		Recommendations: []string{"add more specific detail"},
		CreatedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	buf := make([]byte, QualityReportMUS.Size(report))
	n := QualityReportMUS.Marshal(report, buf)
	require.Equal(t, len(buf), n)

	got, _, err := QualityReportMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, report, got)
}

func TestSourceStateMUS_RoundTrip(t *testing.T) {
	state := SourceState{
		SourcePath: "notes/a.md",
		FileMtime:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ChunkCount: 7,
		UpdatedAt:  time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	buf := make([]byte, SourceStateMUS.Size(state))
	SourceStateMUS.Marshal(state, buf)

	got, _, err := SourceStateMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

func TestChunkMUS_TruncatedData(t *testing.T) {
	chunk := Chunk{Id: 1, SourcePath: "a.md", Text: "text", TokenCount: 1, CharCount: 4}
	buf := make([]byte, ChunkMUS.Size(chunk))
	ChunkMUS.Marshal(chunk, buf)

	_, _, err := ChunkMUS.Unmarshal(buf[:len(buf)/2])
	assert.Error(t, err)
}
