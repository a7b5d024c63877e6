package memory

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khasra-labs/khasra-cli/internal/adapters/driven/embedding/ngram"
	"github.com/khasra-labs/khasra-cli/internal/core/domain"
)

func newTestIndex() *Index {
	return NewIndex(ngram.New(ngram.WithDimensions(64)))
}

func chunk(id string, page int, text string) *domain.Chunk {
	return &domain.Chunk{ID: id, PageNumber: page, Text: text, Metadata: map[string]string{}}
}

func TestAdd_FillsEmbedding(t *testing.T) {
	ix := newTestIndex()
	c := chunk("p0_c0", 0, "Village Atmapur, Tehsil Bishnah")

	require.Nil(t, c.Embedding)
	ix.Add(c)

	assert.NotNil(t, c.Embedding)
	assert.Equal(t, 1, ix.Len())
}

func TestAddMany_PreservesOrder(t *testing.T) {
	ix := newTestIndex()
	ix.AddMany([]*domain.Chunk{
		chunk("p0_c0", 0, "first chunk of text"),
		chunk("p0_c1", 0, "second chunk of text"),
		chunk("p1_c0", 1, "third chunk of text"),
	})

	require.Equal(t, 3, ix.Len())
	all := ix.Search("chunk of text", 10)
	ids := make(map[string]bool)
	for _, r := range all {
		ids[r.Chunk.ID] = true
	}
	assert.Len(t, ids, 3)
}

func TestSearch_EmptyIndex(t *testing.T) {
	ix := newTestIndex()
	assert.Empty(t, ix.Search("anything", 5))
}

func TestSearch_TopKBounds(t *testing.T) {
	ix := newTestIndex()
	ix.AddMany([]*domain.Chunk{
		chunk("p0_c0", 0, "khasra number one two three"),
		chunk("p0_c1", 0, "khata holder record entry"),
		chunk("p1_c0", 1, "mutation entry for the village"),
	})

	assert.Len(t, ix.Search("khasra", 2), 2)
	assert.Len(t, ix.Search("khasra", 10), 3, "topK beyond size returns all")
}

func TestSearch_DescendingScores(t *testing.T) {
	ix := newTestIndex()
	ix.AddMany([]*domain.Chunk{
		chunk("p0_c0", 0, "موضع اتما پور"),
		chunk("p0_c1", 0, "ضلع جموں"),
	})

	results := ix.Search("جموں", 2)
	require.Len(t, results, 2)
	assert.Equal(t, "p0_c1", results[0].Chunk.ID, "higher n-gram overlap ranks first")
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestByPage(t *testing.T) {
	ix := newTestIndex()
	ix.AddMany([]*domain.Chunk{
		chunk("p0_c0", 0, "page zero text"),
		chunk("p1_c0", 1, "page one text"),
		chunk("p1_c1", 1, "more page one text"),
	})

	assert.Len(t, ix.ByPage(1), 2)
	assert.Len(t, ix.ByPage(0), 1)
	assert.Empty(t, ix.ByPage(7))
}

func TestClear(t *testing.T) {
	ix := newTestIndex()
	ix.Add(chunk("p0_c0", 0, "some text here"))
	ix.Clear()

	assert.Zero(t, ix.Len())
	assert.Empty(t, ix.Search("some text", 5))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")

	ix := newTestIndex()
	ix.AddMany([]*domain.Chunk{
		chunk("p0_c0", 0, "Village Atmapur"),
		chunk("p0_c1", 0, "District Jammu"),
	})
	require.NoError(t, ix.Save(path))

	restored := newTestIndex()
	require.NoError(t, restored.Load(path))

	assert.Equal(t, 2, restored.Len())
	results := restored.Search("District Jammu", 1)
	require.Len(t, results, 1)
	assert.Equal(t, "p0_c1", results[0].Chunk.ID)
	assert.NotNil(t, results[0].Chunk.Embedding, "embeddings reattached from matrix")
}

func TestLoad_MissingFile(t *testing.T) {
	ix := newTestIndex()
	assert.Error(t, ix.Load(filepath.Join(t.TempDir(), "absent.json")))
}
