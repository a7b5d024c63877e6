// Package chunker splits page text into bounded, overlapping chunks along
// paragraph boundaries.
package chunker

import (
	"fmt"
	"strings"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
)

// DefaultChunkSize is the default maximum characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of characters carried from the
// end of one chunk into the next.
const DefaultChunkOverlap = 50

// Processor accumulates paragraphs greedily into chunks: a chunk closes when
// the next paragraph would push it past the size limit. A single paragraph
// longer than the limit is kept whole as one oversized chunk - splitting
// mid-paragraph would break the only semantic boundary OCR text reliably
// has.
//
// Sizes count runes, not bytes, so Urdu and Devanagari text is measured the
// same way Latin text is.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
// Zero disables overlap entirely.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Chunk splits text into chunks for the given zero-based page. Empty or
// whitespace-only input produces no chunks; no chunk is ever materialized
// with empty text. Chunk IDs are "p{page}_c{index}".
//
// Pure function: no I/O, no external calls.
func (p *Processor) Chunk(text string, page int) []domain.Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []domain.Chunk
	var buf string
	idx := 0

	flush := func() {
		chunks = append(chunks, domain.Chunk{
			ID:         fmt.Sprintf("p%d_c%d", page, idx),
			PageNumber: page,
			Text:       strings.TrimSpace(buf),
			Metadata:   make(map[string]string),
		})
		idx++
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if buf != "" && runeLen(buf)+runeLen(para) > p.chunkSize {
			flush()
			if p.overlap > 0 {
				buf = tail(buf, p.overlap) + " " + para
			} else {
				buf = para
			}
			continue
		}

		if buf == "" {
			buf = para
		} else {
			buf = buf + "\n\n" + para
		}
	}

	if strings.TrimSpace(buf) != "" {
		flush()
	}

	return chunks
}

func runeLen(s string) int {
	return len([]rune(s))
}

// tail returns the last n runes of s.
func tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
