// Package ingestion stores documents as chunks with embeddings.
//
// Documents arrive from an external file scanner; the pipeline chunks
// them, embeds every chunk, and writes chunks and embedding records in
// one pass. Files whose modification time is unchanged since the last
// run are skipped, and chunks beyond the new end of a shrunken
// document are removed so they stop appearing in search results.
// Embedding failures abort the document before anything is written.
package ingestion
