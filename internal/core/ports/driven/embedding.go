package driven

// EmbeddingService generates vector embeddings from text.
//
// The pipeline's default implementation is a deterministic character n-gram
// hashing embedder: no model, no network, same input always yields the same
// vector. That determinism is load-bearing for snapshot reproducibility and
// for the document cache, so implementations must be pure functions of
// their input.
type EmbeddingService interface {
	// Embed generates a vector for the given text. The result is
	// L2-normalized, or the zero vector for text too short to embed.
	// Embed never fails; degenerate input degrades to the zero vector.
	Embed(text string) []float64

	// Similarity computes cosine similarity between two vectors.
	// Returns 0.0 when either vector is nil or zero-norm.
	Similarity(a, b []float64) float64

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName identifies the embedding scheme.
	ModelName() string
}
