// Package chunker splits document text into overlapping fixed-size
// windows with stable identifiers.
package chunker

import (
	"fmt"
	"strings"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
)

// DefaultChunkSize is the default window size in runes.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultOverlap is the default overlap between windows in runes.
const DefaultOverlap = domain.DefaultChunkOverlap

// Chunker splits document content into fixed-size overlapping chunks.
// Chunking is deterministic: the same text with the same settings
// always yields byte-identical chunk sequences.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the window size in runes.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between windows in runes.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must stay strictly below the window size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Split chunks the document text into an ordered, non-empty sequence.
// Windows advance by chunkSize-overlap; consecutive chunks overlap and
// never drop characters between them. When a sentence boundary falls
// within the trailing overlap of a window, the window ends there
// instead (best effort, never a hard guarantee).
//
// Returns domain.ErrNoExtractableText when the text trims to nothing.
// Split performs no I/O.
func (c *Chunker) Split(docID string, input domain.DocumentInput) ([]domain.Chunk, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, fmt.Errorf("document %q: %w", input.Label, domain.ErrNoExtractableText)
	}

	runes := []rune(input.Text)
	total := len(runes)

	estimated := total/(c.chunkSize-c.overlap) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	start := 0
	for start < total {
		end := start + c.chunkSize
		if end >= total {
			end = total
		} else {
			end = c.sentenceBackoff(runes, start, end)
		}

		chunks = append(chunks, domain.Chunk{
			ID:         fmt.Sprintf("%s:%d", docID, start),
			DocumentID: docID,
			Page:       input.PageAt(start),
			Content:    string(runes[start:end]),
			CharStart:  start,
			CharEnd:    end,
		})

		if end >= total {
			break
		}

		next := end - c.overlap
		if next <= start {
			// Guarantee forward progress on degenerate settings
			next = start + 1
		}
		start = next
	}

	return chunks, nil
}

// sentenceBackoff pulls the window end back to just after the last
// sentence boundary inside the trailing overlap region, when one
// exists. The window never shrinks past the overlap region, so the
// advance step stays positive.
func (c *Chunker) sentenceBackoff(runes []rune, start, end int) int {
	floor := end - c.overlap
	if floor <= start {
		floor = start + 1
	}

	for i := end - 1; i >= floor; i-- {
		if isSentenceBoundary(runes[i]) {
			return i + 1
		}
	}
	return end
}

func isSentenceBoundary(r rune) bool {
	switch r {
	case '.', '!', '?', '\n':
		return true
	default:
		return false
	}
}
