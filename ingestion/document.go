package ingestion

import "time"

// Document is one Markdown file handed over by an external file
// scanner. The pipeline never touches the filesystem itself.
type Document struct {
	Path  string    // Source path, the chunk identity anchor
	Text  string    // Raw Markdown, frontmatter included
	Mtime time.Time // Modification time at scan
}

// Result reports what ingesting one document did.
type Result struct {
	SourcePath    string
	ChunksWritten int
	ChunksDeleted int // Stale chunks removed after the document shrank
	Skipped       bool // True when the file was unchanged since the last run
}

// BatchResult aggregates a multi-document ingestion run.
type BatchResult struct {
	Ingested int
	Skipped  int
	Failed   int
}
