package chunker

import (
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer counts and slices text in model tokens.
type Tokenizer interface {
	// CountTokens returns the number of tokens in text.
	CountTokens(text string) int

	// Head returns the prefix of text spanning at most n tokens, and
	// whether anything was cut off.
	Head(text string, n int) (string, bool)

	// Tail returns the suffix of text spanning at most n tokens.
	Tail(text string, n int) string
}

// TiktokenTokenizer implements Tokenizer on a tiktoken encoding. The
// encoding data is loaded lazily on first use; if loading fails, every
// call falls back to a character-based estimate so chunking keeps
// working offline.
type TiktokenTokenizer struct {
	encoding string
	logger   *slog.Logger

	once    sync.Once
	enc     *tiktoken.Tiktoken
	initErr error
}

var _ Tokenizer = (*TiktokenTokenizer)(nil)

// NewTiktokenTokenizer creates a tokenizer for the given tiktoken
// encoding name, e.g. "cl100k_base".
func NewTiktokenTokenizer(encoding string) *TiktokenTokenizer {
	return &TiktokenTokenizer{
		encoding: encoding,
		logger:   slog.Default().With("component", "tokenizer"),
	}
}

// DefaultTokenizer returns a tokenizer for the cl100k_base encoding,
// which covers the OpenAI embedding model family.
func DefaultTokenizer() *TiktokenTokenizer {
	return NewTiktokenTokenizer("cl100k_base")
}

func (t *TiktokenTokenizer) init() bool {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(t.encoding)
		if err != nil {
			t.initErr = err
			t.logger.Warn("failed to load tiktoken encoding, falling back to character estimate",
				"encoding", t.encoding, "err", err)
			return
		}
		t.enc = enc
	})
	return t.initErr == nil
}

// CountTokens returns the token count of text, or len(text)/4 when the
// encoding is unavailable.
func (t *TiktokenTokenizer) CountTokens(text string) int {
	if !t.init() {
		return estimateTokens(text)
	}
	return len(t.enc.Encode(text, nil, nil))
}

// Head returns the prefix of text spanning at most n tokens.
func (t *TiktokenTokenizer) Head(text string, n int) (string, bool) {
	if n <= 0 {
		return "", text != ""
	}
	if !t.init() {
		if estimateTokens(text) <= n {
			return text, false
		}
		return clampRunes(text, n*4), true
	}

	tokens := t.enc.Encode(text, nil, nil)
	if len(tokens) <= n {
		return text, false
	}
	return t.enc.Decode(tokens[:n]), true
}

// Tail returns the suffix of text spanning at most n tokens.
func (t *TiktokenTokenizer) Tail(text string, n int) string {
	if n <= 0 {
		return ""
	}
	if !t.init() {
		if estimateTokens(text) <= n {
			return text
		}
		runes := []rune(text)
		return string(runes[len(runes)-min(len(runes), n*4):])
	}

	tokens := t.enc.Encode(text, nil, nil)
	if len(tokens) <= n {
		return text
	}
	return t.enc.Decode(tokens[len(tokens)-n:])
}

// estimateTokens approximates a token count as len/4, the usual
// characters-per-token ratio for English text.
func estimateTokens(text string) int {
	return len(text) / 4
}

func clampRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
