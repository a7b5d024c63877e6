// Package memory implements a document-scoped in-memory vector index using
// brute-force cosine similarity.
package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
	"github.com/khasra-labs/khasra-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores one document's chunks alongside a parallel embedding matrix.
// The matrix row count always equals the chunk count. All access goes
// through a single mutex; contention is chunk-granular, not a hot loop.
type Index struct {
	mu       sync.Mutex
	embedder driven.EmbeddingService
	chunks   []domain.Chunk
	matrix   [][]float64
}

// NewIndex creates an empty index backed by the given embedder.
func NewIndex(embedder driven.EmbeddingService) *Index {
	return &Index{embedder: embedder}
}

// Add appends a chunk, computing its embedding if missing. The chunk's
// Embedding field is filled in place so the caller's copy is indexed too.
func (ix *Index) Add(chunk *domain.Chunk) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.add(chunk)
}

// AddMany appends chunks preserving input order.
func (ix *Index) AddMany(chunks []*domain.Chunk) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, chunk := range chunks {
		ix.add(chunk)
	}
}

func (ix *Index) add(chunk *domain.Chunk) {
	if chunk.Embedding == nil {
		chunk.Embedding = ix.embedder.Embed(chunk.Text)
	}
	ix.chunks = append(ix.chunks, *chunk)
	ix.matrix = append(ix.matrix, chunk.Embedding)
}

// Search embeds the query and scores it against every stored chunk.
// Results are sorted by descending similarity; ties keep insertion order.
// topK beyond the index size returns everything.
func (ix *Index) Search(query string, topK int) []domain.SearchResult {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if len(ix.chunks) == 0 || topK <= 0 {
		return nil
	}

	queryVec := ix.embedder.Embed(query)

	results := make([]domain.SearchResult, len(ix.chunks))
	for i := range ix.chunks {
		results[i] = domain.SearchResult{
			Chunk: ix.chunks[i],
			Score: ix.embedder.Similarity(queryVec, ix.matrix[i]),
		}
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results
}

// ByPage returns the chunks recorded for a zero-based page index.
func (ix *Index) ByPage(page int) []domain.Chunk {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	var chunks []domain.Chunk
	for i := range ix.chunks {
		if ix.chunks[i].PageNumber == page {
			chunks = append(chunks, ix.chunks[i])
		}
	}
	return chunks
}

// Len reports the number of stored chunks.
func (ix *Index) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.chunks)
}

// Clear drops all chunks and embeddings. Called at the start of every new
// document run.
func (ix *Index) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.chunks = nil
	ix.matrix = nil
}

// snapshot is the on-disk form: chunk records plus the embedding matrix as
// nested numeric arrays.
type snapshot struct {
	Chunks     []domain.Chunk `json:"chunks"`
	Embeddings [][]float64    `json:"embeddings"`
}

// Save serializes the index to path as a single JSON snapshot.
func (ix *Index) Save(path string) error {
	ix.mu.Lock()
	snap := snapshot{Chunks: ix.chunks, Embeddings: ix.matrix}
	ix.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load replaces the index contents with a snapshot written by Save,
// reattaching each chunk's embedding by slicing the matrix.
func (ix *Index) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if len(snap.Embeddings) != len(snap.Chunks) {
		return fmt.Errorf("%w: snapshot has %d chunks but %d embedding rows",
			domain.ErrInvalidInput, len(snap.Chunks), len(snap.Embeddings))
	}

	for i := range snap.Chunks {
		snap.Chunks[i].Embedding = snap.Embeddings[i]
		if snap.Chunks[i].Metadata == nil {
			snap.Chunks[i].Metadata = make(map[string]string)
		}
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.chunks = snap.Chunks
	ix.matrix = snap.Embeddings
	return nil
}
