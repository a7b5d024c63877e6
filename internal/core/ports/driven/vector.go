package driven

import (
	"github.com/khasra-labs/khasra-cli/internal/core/domain"
)

// VectorIndex provides similarity search over one document's chunks.
// The index is document-scoped: it is cleared at the start of every run and
// rebuilt as pages are processed. Brute-force cosine over a few hundred
// chunks, not an ANN structure.
type VectorIndex interface {
	// Add appends a chunk, computing its embedding if missing.
	Add(chunk *domain.Chunk)

	// AddMany appends chunks preserving input order.
	AddMany(chunks []*domain.Chunk)

	// Search embeds the query and returns the top-k chunks by descending
	// cosine similarity. Ties keep insertion order. An empty index
	// returns no results; k larger than the index returns everything.
	Search(query string, topK int) []domain.SearchResult

	// ByPage returns the chunks recorded for a zero-based page index.
	ByPage(page int) []domain.Chunk

	// Len reports the number of stored chunks.
	Len() int

	// Clear drops all chunks and embeddings.
	Clear()

	// Save serializes chunks plus the embedding matrix to path as one
	// self-describing snapshot.
	Save(path string) error

	// Load restores a snapshot written by Save, reattaching each chunk's
	// embedding from the matrix.
	Load(path string) error
}
