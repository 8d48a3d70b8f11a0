// Package chunker splits Markdown documents into token-bounded,
// heading-aware passages with cross-chunk overlap.
//
// Documents are split at ATX heading boundaries first; sections that
// exceed the token bound fall back to sentence-boundary packing. Each
// chunk after the first repeats the trailing overlap tokens of its
// predecessor so retrieval keeps cross-chunk context. YAML frontmatter
// is parsed off the document and carried on every chunk as tags and
// string fields.
//
// Chunking is deterministic and pure: the same document always produces
// byte-identical chunks, and no I/O happens inside the package.
package chunker
