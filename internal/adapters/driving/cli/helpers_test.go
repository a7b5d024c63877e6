package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/khasra-labs/khasra-cli/internal/adapters/driven/embedding/ngram"
	vectormem "github.com/khasra-labs/khasra-cli/internal/adapters/driven/vector/memory"
	"github.com/khasra-labs/khasra-cli/internal/core/domain"
	"github.com/khasra-labs/khasra-cli/internal/core/ports/driving"
)

// fakeDocumentProcessor serves canned results so commands can be executed
// without OCR or rasterizer binaries.
type fakeDocumentProcessor struct {
	index    *vectormem.Index
	result   *domain.DocumentResult
	lastOpts domain.ProcessOptions
}

var _ driving.DocumentProcessor = (*fakeDocumentProcessor)(nil)

func (f *fakeDocumentProcessor) ProcessStreaming(_ context.Context, _ string, opts domain.ProcessOptions) (driving.PageStream, error) {
	f.lastOpts = opts
	return &cannedStream{pages: f.result.Pages}, nil
}

func (f *fakeDocumentProcessor) ProcessBatch(_ context.Context, _ string, opts domain.ProcessOptions) (*domain.DocumentResult, error) {
	f.lastOpts = opts
	return f.result, nil
}

func (f *fakeDocumentProcessor) Search(query string, topK int) []domain.SearchResult {
	return f.index.Search(query, topK)
}

func (f *fakeDocumentProcessor) QueryContext(query string, contextChunks int) domain.QueryContext {
	results := f.index.Search(query, contextChunks)
	qc := domain.QueryContext{Query: query, Context: results}
	for _, r := range results {
		qc.Translations = append(qc.Translations, r.Chunk.Text)
	}
	return qc
}

func (f *fakeDocumentProcessor) Progress() domain.Progress {
	return domain.Progress{CurrentStage: domain.StageComplete}
}

type cannedStream struct {
	pages []domain.PageResult
	pos   int
}

func (s *cannedStream) Next() (domain.PageResult, bool) {
	if s.pos >= len(s.pages) {
		return domain.PageResult{}, false
	}
	page := s.pages[s.pos]
	s.pos++
	return page, true
}

func (s *cannedStream) Close() {}

// setupTestServices injects a fake processor over a small real index and
// writes an index snapshot. Returns the snapshot path and a cleanup.
func setupTestServices(t *testing.T) (string, func()) {
	t.Helper()
	_, snapshot, cleanup := setupTestServicesWithConfig(t, "")
	return snapshot, cleanup
}

// setupTestServicesWithConfig additionally writes configTOML as the test
// home's config.toml and exposes the fake processor for inspection.
func setupTestServicesWithConfig(t *testing.T, configTOML string) (*fakeDocumentProcessor, string, func()) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("KHASRA_HOME", home)
	if configTOML != "" {
		require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"), []byte(configTOML), 0600))
	}

	ix := vectormem.NewIndex(ngram.New(ngram.WithDimensions(64)))
	chunks := []domain.Chunk{
		{ID: "p0_c0", PageNumber: 0, Text: "موضع اتما پور", Metadata: map[string]string{}},
		{ID: "p1_c0", PageNumber: 1, Text: "ضلع جموں", Metadata: map[string]string{}},
	}
	refs := []*domain.Chunk{&chunks[0], &chunks[1]}
	ix.AddMany(refs)

	snapshot := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, ix.Save(snapshot))

	result := &domain.DocumentResult{
		DocHash:    "abcdef0123456789",
		TotalPages: 2,
		Pages: []domain.PageResult{
			{PageNumber: 1, Chunks: chunks[:1], Text: "موضع اتما پور"},
			{PageNumber: 2, Chunks: chunks[1:], Text: "ضلع جموں"},
		},
		FullText: "موضع اتما پور" + domain.PageSeparator + "ضلع جموں",
	}

	fake := &fakeDocumentProcessor{index: ix, result: result}
	SetProcessor(fake, ix)

	return fake, snapshot, func() {
		processor = nil
		index = nil
		rootCmd.SetArgs(nil)

		// Flag variables persist across executions in one test binary.
		searchJSON = false
		searchContext = false
		searchIndexPath = ""
		searchLimit = 5
		processJSON = false
		processTranslate = false
		processNoCache = false
		processSaveIndex = ""
		processSource = ""
		processTarget = ""
		processBatchSize = 0
		streamTranslate = false
		streamNoCache = false
		streamTUI = false
		streamSource = ""
		streamTarget = ""
	}
}
