// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunker

import (
	"time"
	"unicode/utf8"

	"github.com/poiesic/recallit/core"
)

const (
	// DefaultMaxChunkSize bounds a chunk's token count, overlap included.
	DefaultMaxChunkSize = 512

	// DefaultChunkOverlap is how many trailing tokens of a chunk are
	// repeated at the start of the next chunk from the same document.
	DefaultChunkOverlap = 102

	// DefaultMinChunkSize is the token count below which a trailing
	// passage is merged into its predecessor when it fits.
	DefaultMinChunkSize = 50
)

// Config holds the chunking parameters.
type Config struct {
	MaxChunkSize int
	ChunkOverlap int
	MinChunkSize int
}

// DefaultChunkerConfig returns the default chunking parameters.
func DefaultChunkerConfig() Config {
	return Config{
		MaxChunkSize: DefaultMaxChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		MinChunkSize: DefaultMinChunkSize,
	}
}

// Chunker splits Markdown documents into token-bounded, heading-aware
// passages with overlap. Chunking is a pure function of the input text
// and the configuration; all file I/O happens elsewhere.
type Chunker struct {
	config    Config
	tokenizer Tokenizer
}

// Option is a functional option for configuring a Chunker.
type Option func(*Chunker)

// WithMaxChunkSize sets the chunk token bound.
func WithMaxChunkSize(n int) Option {
	return func(c *Chunker) {
		c.config.MaxChunkSize = n
	}
}

// WithChunkOverlap sets the cross-chunk overlap in tokens.
func WithChunkOverlap(n int) Option {
	return func(c *Chunker) {
		c.config.ChunkOverlap = n
	}
}

// WithMinChunkSize sets the merge threshold for trailing passages.
func WithMinChunkSize(n int) Option {
	return func(c *Chunker) {
		c.config.MinChunkSize = n
	}
}

// WithTokenizer sets the tokenizer used for counting and slicing.
func WithTokenizer(t Tokenizer) Option {
	return func(c *Chunker) {
		c.tokenizer = t
	}
}

// New creates a Chunker with the default configuration and tokenizer,
// adjusted by the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		config:    DefaultChunkerConfig(),
		tokenizer: DefaultTokenizer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.config.ChunkOverlap >= c.config.MaxChunkSize {
		c.config.ChunkOverlap = c.config.MaxChunkSize / 4
	}
	return c
}

// passage is an intermediate split before overlap assembly.
type passage struct {
	heading   string
	text      string
	truncated bool
}

// ChunkDocument splits a Markdown document into chunks. Splitting
// happens at heading boundaries first; sections that still exceed the
// token bound fall back to sentence packing. Each chunk after the first
// starts with the trailing ChunkOverlap tokens of its predecessor's
// text. A document that is empty after frontmatter removal yields no
// chunks and no error.
func (c *Chunker) ChunkDocument(sourcePath, raw string, fileMtime time.Time) []*core.Chunk {
	frontmatter, body := parseFrontmatter(raw)

	// Budget for fresh content per chunk, leaving room for the overlap
	// prefix and a little slack for tokenization boundary effects.
	budget := c.config.MaxChunkSize - c.config.ChunkOverlap - 4
	if budget < 1 {
		budget = 1
	}

	var passages []passage
	for _, sec := range splitSections(body) {
		passages = append(passages, c.splitSection(sec, budget)...)
	}

	chunks := make([]*core.Chunk, 0, len(passages))
	prevText := ""
	for i, p := range passages {
		text := p.text
		if i > 0 && c.config.ChunkOverlap > 0 {
			text = c.tokenizer.Tail(prevText, c.config.ChunkOverlap) + "\n" + text
		}

		tokenCount := c.tokenizer.CountTokens(text)
		if tokenCount > c.config.MaxChunkSize && !p.truncated {
			// Boundary effects pushed the assembled text over the
			// bound; clamp to keep the invariant.
			text, _ = c.tokenizer.Head(text, c.config.MaxChunkSize)
			tokenCount = c.tokenizer.CountTokens(text)
		}

		chunks = append(chunks, &core.Chunk{
			SourcePath:  sourcePath,
			Heading:     p.heading,
			IndexInDoc:  i,
			Text:        text,
			TokenCount:  tokenCount,
			CharCount:   utf8.RuneCountInString(text),
			Truncated:   p.truncated,
			Tags:        frontmatter.Tags,
			Frontmatter: frontmatter.Fields,
			FileMtime:   fileMtime,
		})
		prevText = text
	}

	return chunks
}

// splitSection turns one heading section into passages no larger than
// budget tokens. Sections that fit stay whole; larger ones are packed
// sentence by sentence. A single sentence over the budget is
// hard-truncated and flagged rather than rejected.
func (c *Chunker) splitSection(sec section, budget int) []passage {
	if c.tokenizer.CountTokens(sec.text) <= budget {
		return []passage{{heading: sec.heading, text: sec.text}}
	}

	var passages []passage
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		passages = append(passages, passage{
			heading: sec.heading,
			text:    joinSentences(current),
		})
		current = nil
		currentTokens = 0
	}

	for _, sentence := range splitSentences(sec.text) {
		tokens := c.tokenizer.CountTokens(sentence)

		if tokens > budget {
			flush()
			truncatedText, _ := c.tokenizer.Head(sentence, budget)
			passages = append(passages, passage{
				heading:   sec.heading,
				text:      truncatedText,
				truncated: true,
			})
			continue
		}

		if currentTokens+tokens > budget {
			flush()
		}
		current = append(current, sentence)
		currentTokens += tokens
	}
	flush()

	return c.mergeSmallTail(passages, budget)
}

// mergeSmallTail folds an undersized final passage into its predecessor
// when the result stays within budget.
func (c *Chunker) mergeSmallTail(passages []passage, budget int) []passage {
	n := len(passages)
	if n < 2 {
		return passages
	}
	last := passages[n-1]
	prev := passages[n-2]
	if last.truncated || prev.truncated {
		return passages
	}
	if c.tokenizer.CountTokens(last.text) >= c.config.MinChunkSize {
		return passages
	}
	merged := prev.text + " " + last.text
	if c.tokenizer.CountTokens(merged) > budget {
		return passages
	}
	passages[n-2].text = merged
	return passages[:n-1]
}

func joinSentences(sentences []string) string {
	out := ""
	for i, s := range sentences {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}
