// Package ngram implements a deterministic character n-gram hashing
// embedder.
//
// This is intentionally NOT a learned embedding. Every overlapping 3-gram
// of the lower-cased text is hashed into a fixed-size bucket vector, which
// is then L2-normalized. Similarity degrades to "shares character n-grams"
// rather than anything semantic, which is enough to rank chunks of a single
// land record against a query in the same script. In exchange the embedder
// needs no model, no network, and always produces the same vector for the
// same input - which snapshot reproducibility and caching depend on.
package ngram

import (
	"hash/fnv"
	"math"
	"strings"

	"github.com/khasra-labs/khasra-cli/internal/core/ports/driven"
)

// DefaultDimensions is the default embedding vector size.
const DefaultDimensions = 256

// ngramSize is the character n-gram width.
const ngramSize = 3

// Ensure Embedder implements the interface.
var _ driven.EmbeddingService = (*Embedder)(nil)

// Embedder hashes character 3-grams into a fixed-size vector.
// Stateless and safe for concurrent use.
type Embedder struct {
	dimensions int
}

// Option configures the embedder.
type Option func(*Embedder)

// WithDimensions sets the vector size.
func WithDimensions(d int) Option {
	return func(e *Embedder) {
		if d > 0 {
			e.dimensions = d
		}
	}
}

// New creates an n-gram embedder with the given options.
func New(opts ...Option) *Embedder {
	e := &Embedder{dimensions: DefaultDimensions}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed generates the embedding for text. The result has L2 norm 1.0, or is
// the zero vector when the trimmed text is shorter than 3 runes.
func (e *Embedder) Embed(text string) []float64 {
	vec := make([]float64, e.dimensions)

	runes := []rune(strings.ToLower(strings.TrimSpace(text)))
	if len(runes) < ngramSize {
		return vec
	}

	for i := 0; i+ngramSize <= len(runes); i++ {
		vec[e.bucket(string(runes[i:i+ngramSize]))]++
	}

	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// bucket maps an n-gram to a vector index. FNV-1a rather than the built-in
// map hash: the bucket assignment must be identical across processes so
// that saved snapshots stay searchable.
func (e *Embedder) bucket(gram string) int {
	h := fnv.New32a()
	h.Write([]byte(gram))
	return int(h.Sum32() % uint32(e.dimensions))
}

// Similarity computes cosine similarity. Zero or nil vectors yield 0.0;
// there is no error path and no division by zero.
func (e *Embedder) Similarity(a, b []float64) float64 {
	if a == nil || b == nil {
		return 0.0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Dimensions returns the vector size.
func (e *Embedder) Dimensions() int { return e.dimensions }

// ModelName identifies the embedding scheme.
func (e *Embedder) ModelName() string { return "char-ngram-hash" }
