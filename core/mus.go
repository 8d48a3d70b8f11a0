package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the stored entities. Only entities that
// cross the storage boundary have serializers: Chunk, EmbeddingRecord,
// QualityReport and SourceState. Transient types (SearchResult,
// RerankedResult) are never persisted and have none.
//
// Times are encoded as Unix microseconds.

var (
	IDMUS              = idMUS{}
	ChunkMUS           = chunkMUS{}
	EmbeddingRecordMUS = embeddingRecordMUS{}
	QualityReportMUS   = qualityReportMUS{}
	SourceStateMUS     = sourceStateMUS{}
)

var (
	_ mus.Serializer[ID]              = IDMUS
	_ mus.Serializer[Chunk]           = ChunkMUS
	_ mus.Serializer[EmbeddingRecord] = EmbeddingRecordMUS
	_ mus.Serializer[QualityReport]   = QualityReportMUS
	_ mus.Serializer[SourceState]     = SourceStateMUS
)

// idMUS serializes ID as a varint uint64.
type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

// timeMUS serializes time.Time as Unix microseconds (UTC on decode).
type timeMUS struct{}

func (s timeMUS) Marshal(v time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (s timeMUS) Unmarshal(bs []byte) (v time.Time, n int, err error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func (s timeMUS) Size(v time.Time) int {
	return varint.Int64.Size(v.UnixMicro())
}

func (s timeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int64.Skip(bs)
}

var timeSer = timeMUS{}

// stringSliceMUS serializes []string with a varint length prefix.
type stringSliceMUS struct{}

func (s stringSliceMUS) Marshal(v []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, e := range v {
		n += ord.String.Marshal(e, bs[n:])
	}
	return
}

func (s stringSliceMUS) Unmarshal(bs []byte) (v []string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return
	}
	var n1 int
	v = make([]string, length)
	for i := 0; i < length; i++ {
		v[i], n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s stringSliceMUS) Size(v []string) (size int) {
	size = varint.Int.Size(len(v))
	for _, e := range v {
		size += ord.String.Size(e)
	}
	return
}

func (s stringSliceMUS) Skip(bs []byte) (n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	for i := 0; i < length; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

var stringSliceSer = stringSliceMUS{}

// stringMapMUS serializes map[string]string with a varint length prefix.
// Keys are written in insertion-independent but unspecified order; callers
// must not rely on byte-identical output for equal maps.
type stringMapMUS struct{}

func (s stringMapMUS) Marshal(v map[string]string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for k, e := range v {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(e, bs[n:])
	}
	return
}

func (s stringMapMUS) Unmarshal(bs []byte) (v map[string]string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return
	}
	var (
		n1   int
		k, e string
	)
	v = make(map[string]string, length)
	for i := 0; i < length; i++ {
		k, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		e, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v[k] = e
	}
	return
}

func (s stringMapMUS) Size(v map[string]string) (size int) {
	size = varint.Int.Size(len(v))
	for k, e := range v {
		size += ord.String.Size(k) + ord.String.Size(e)
	}
	return
}

func (s stringMapMUS) Skip(bs []byte) (n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	for i := 0; i < 2*length; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

var stringMapSer = stringMapMUS{}

// vectorMUS serializes []float32 with a varint length prefix and raw floats.
type vectorMUS struct{}

func (s vectorMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, e := range v {
		n += raw.Float32.Marshal(e, bs[n:])
	}
	return
}

func (s vectorMUS) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return
	}
	var n1 int
	v = make([]float32, length)
	for i := 0; i < length; i++ {
		v[i], n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s vectorMUS) Size(v []float32) int {
	size := varint.Int.Size(len(v))
	if len(v) > 0 {
		size += len(v) * raw.Float32.Size(v[0])
	}
	return size
}

func (s vectorMUS) Skip(bs []byte) (n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	for i := 0; i < length; i++ {
		n1, err = raw.Float32.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

var vectorSer = vectorMUS{}

// chunkMUS serializes Chunk.
type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.SourcePath, bs[n:])
	n += ord.String.Marshal(v.Heading, bs[n:])
	n += varint.Int.Marshal(v.IndexInDoc, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += varint.Int.Marshal(v.TokenCount, bs[n:])
	n += varint.Int.Marshal(v.CharCount, bs[n:])
	n += ord.Bool.Marshal(v.Truncated, bs[n:])
	n += stringSliceSer.Marshal(v.Tags, bs[n:])
	n += stringMapSer.Marshal(v.Frontmatter, bs[n:])
	n += stringMapSer.Marshal(v.Extra, bs[n:])
	n += timeSer.Marshal(v.FileMtime, bs[n:])
	n += timeSer.Marshal(v.InsertedAt, bs[n:])
	n += timeSer.Marshal(v.UpdatedAt, bs[n:])
	return
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.SourcePath, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Heading, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.IndexInDoc, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.TokenCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CharCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Truncated, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Tags, n1, err = stringSliceSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Frontmatter, n1, err = stringMapSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Extra, n1, err = stringMapSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.FileMtime, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InsertedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UpdatedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.SourcePath)
	size += ord.String.Size(v.Heading)
	size += varint.Int.Size(v.IndexInDoc)
	size += ord.String.Size(v.Text)
	size += varint.Int.Size(v.TokenCount)
	size += varint.Int.Size(v.CharCount)
	size += ord.Bool.Size(v.Truncated)
	size += stringSliceSer.Size(v.Tags)
	size += stringMapSer.Size(v.Frontmatter)
	size += stringMapSer.Size(v.Extra)
	size += timeSer.Size(v.FileMtime)
	size += timeSer.Size(v.InsertedAt)
	size += timeSer.Size(v.UpdatedAt)
	return
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	v, n, err := s.Unmarshal(bs)
	_ = v
	return
}

// embeddingRecordMUS serializes EmbeddingRecord.
type embeddingRecordMUS struct{}

func (s embeddingRecordMUS) Marshal(v EmbeddingRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.ChunkId, bs)
	n += vectorSer.Marshal(v.Vector, bs[n:])
	n += ord.String.Marshal(v.ModelName, bs[n:])
	n += timeSer.Marshal(v.CreatedAt, bs[n:])
	return
}

func (s embeddingRecordMUS) Unmarshal(bs []byte) (v EmbeddingRecord, n int, err error) {
	var n1 int
	if v.ChunkId, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Vector, n1, err = vectorSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ModelName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CreatedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return
}

func (s embeddingRecordMUS) Size(v EmbeddingRecord) (size int) {
	size = IDMUS.Size(v.ChunkId)
	size += vectorSer.Size(v.Vector)
	size += ord.String.Size(v.ModelName)
	size += timeSer.Size(v.CreatedAt)
	return
}

func (s embeddingRecordMUS) Skip(bs []byte) (n int, err error) {
	v, n, err := s.Unmarshal(bs)
	_ = v
	return
}

// qualityReportMUS serializes QualityReport.
type qualityReportMUS struct{}

func (s qualityReportMUS) Marshal(v QualityReport, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Query, bs[n:])
	n += ord.String.Marshal(v.Response, bs[n:])
	n += raw.Float64.Marshal(v.OverallScore, bs[n:])
	n += ord.String.Marshal(string(v.Level), bs[n:])
	n += raw.Float64.Marshal(v.SubScores.Basic, bs[n:])
	n += raw.Float64.Marshal(v.SubScores.Semantic, bs[n:])
	n += raw.Float64.Marshal(v.SubScores.Relevance, bs[n:])
	n += raw.Float64.Marshal(v.SubScores.Completeness, bs[n:])
	n += raw.Float64.Marshal(v.SubScores.Coherence, bs[n:])
	n += stringSliceSer.Marshal(v.Recommendations, bs[n:])
	n += ord.Bool.Marshal(v.Degraded, bs[n:])
	n += timeSer.Marshal(v.CreatedAt, bs[n:])
	return
}

func (s qualityReportMUS) Unmarshal(bs []byte) (v QualityReport, n int, err error) {
	var (
		n1    int
		level string
	)
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Query, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Response, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.OverallScore, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if level, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	v.Level = QualityLevel(level)
	n += n1
	if v.SubScores.Basic, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.SubScores.Semantic, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.SubScores.Relevance, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.SubScores.Completeness, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.SubScores.Coherence, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Recommendations, n1, err = stringSliceSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Degraded, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CreatedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return
}

func (s qualityReportMUS) Size(v QualityReport) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Query)
	size += ord.String.Size(v.Response)
	size += raw.Float64.Size(v.OverallScore)
	size += ord.String.Size(string(v.Level))
	size += 5 * raw.Float64.Size(0)
	size += stringSliceSer.Size(v.Recommendations)
	size += ord.Bool.Size(v.Degraded)
	size += timeSer.Size(v.CreatedAt)
	return
}

func (s qualityReportMUS) Skip(bs []byte) (n int, err error) {
	v, n, err := s.Unmarshal(bs)
	_ = v
	return
}

// sourceStateMUS serializes SourceState.
type sourceStateMUS struct{}

func (s sourceStateMUS) Marshal(v SourceState, bs []byte) (n int) {
	n = ord.String.Marshal(v.SourcePath, bs)
	n += timeSer.Marshal(v.FileMtime, bs[n:])
	n += varint.Int.Marshal(v.ChunkCount, bs[n:])
	n += timeSer.Marshal(v.UpdatedAt, bs[n:])
	return
}

func (s sourceStateMUS) Unmarshal(bs []byte) (v SourceState, n int, err error) {
	var n1 int
	if v.SourcePath, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.FileMtime, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ChunkCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UpdatedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return
}

func (s sourceStateMUS) Size(v SourceState) (size int) {
	size = ord.String.Size(v.SourcePath)
	size += timeSer.Size(v.FileMtime)
	size += varint.Int.Size(v.ChunkCount)
	size += timeSer.Size(v.UpdatedAt)
	return
}

func (s sourceStateMUS) Skip(bs []byte) (n int, err error) {
	v, n, err := s.Unmarshal(bs)
	_ = v
	return
}
