package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/recallit/core"
)

// Key prefixes for different data types
const (
	chunkPrefix       = "chkrec"
	chunkSourcePrefix = "chksrc"
	chunkTagPrefix    = "chktag"
	embeddingPrefix   = "embrec"
	reportPrefix      = "qrprec"
	reportDatePrefix  = "qrpdat"
	sourceStatePrefix = "srcsta"
)

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkPrefix, id))
}

// makeChunkSourceKey generates a composite key for the source index.
// Format: prefix:path\x00:index. The NUL terminator keeps "a.md" from
// matching the prefix scan for "a.m". The index is written BigEndian so
// lexicographic iteration yields document order.
func makeChunkSourceKey(sourcePath string, indexInDoc int) []byte {
	prefix := chunkSourcePrefix + ":" + sourcePath + "\x00:"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(indexInDoc))
	return buf
}

// makePartialChunkSourceKey generates the scan prefix for all chunks of a source.
func makePartialChunkSourceKey(sourcePath string) []byte {
	return []byte(chunkSourcePrefix + ":" + sourcePath + "\x00:")
}

// makeChunkTagKey generates a composite key for the tag index.
// Format: prefix:tag\x00:chunkID.
func makeChunkTagKey(tag string, chunkID core.ID) []byte {
	prefix := chunkTagPrefix + ":" + tag + "\x00:"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkID))
	return buf
}

// makePartialChunkTagKey generates the scan prefix for all chunks with a tag.
func makePartialChunkTagKey(tag string) []byte {
	return []byte(chunkTagPrefix + ":" + tag + "\x00:")
}

// makeEmbeddingKey generates a key for a chunk's embedding record.
func makeEmbeddingKey(chunkID core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", embeddingPrefix, chunkID))
}

// makeReportKey generates a key for a quality report by ID.
func makeReportKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", reportPrefix, id))
}

// makeReportDateKey generates a composite key for the report date index.
// Format: prefix:timestamp:id, both BigEndian so lexicographic order is
// chronological.
func makeReportDateKey(createdAt time.Time, id core.ID) []byte {
	prefix := reportDatePrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialReportDateKey generates a partial key for report range queries.
func makePartialReportDateKey(createdAt time.Time) []byte {
	prefix := reportDatePrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	return buf
}

// makeSourceStateKey generates a key for per-source ingestion state.
func makeSourceStateKey(sourcePath string) []byte {
	return []byte(sourceStatePrefix + ":" + sourcePath)
}
