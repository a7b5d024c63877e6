package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
	"github.com/khasra-labs/khasra-cli/internal/core/ports/driven"
	"github.com/khasra-labs/khasra-cli/internal/core/ports/driving"
	"github.com/khasra-labs/khasra-cli/internal/logger"
	"github.com/khasra-labs/khasra-cli/internal/postprocessors/chunker"
)

// Ensure Processor implements the interface.
var _ driving.DocumentProcessor = (*Processor)(nil)

// Processor drives OCR, chunking, translation and indexing across the pages
// of one document at a time. It owns the vector index, translation cache
// and progress tracker for the lifetime of a run; a new run clears them.
//
// Construct one Processor per owning application and inject collaborators
// explicitly. There is no hidden process-wide instance.
type Processor struct {
	rasterizer driven.Rasterizer
	ocr        driven.OCREngine
	index      driven.VectorIndex
	docCache   driven.DocumentCache

	pages        *PagePipeline
	translations *TranslationCache
	progress     *ProgressTracker

	maxWorkers int
	progressFn driving.ProgressFunc
}

type processorConfig struct {
	chunkSize    int
	chunkOverlap int
	maxWorkers   int
	progressFn   driving.ProgressFunc
}

// ProcessorOption configures the processor.
type ProcessorOption func(*processorConfig)

// WithChunkSize sets the maximum characters per chunk.
func WithChunkSize(size int) ProcessorOption {
	return func(c *processorConfig) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the overlap carried between chunks.
func WithChunkOverlap(overlap int) ProcessorOption {
	return func(c *processorConfig) {
		if overlap >= 0 {
			c.chunkOverlap = overlap
		}
	}
}

// WithMaxWorkers bounds concurrent OCR calls in batch mode.
func WithMaxWorkers(workers int) ProcessorOption {
	return func(c *processorConfig) {
		if workers > 0 {
			c.maxWorkers = workers
		}
	}
}

// WithProgressFunc registers a callback invoked after every processed page.
func WithProgressFunc(fn driving.ProgressFunc) ProcessorOption {
	return func(c *processorConfig) {
		c.progressFn = fn
	}
}

// NewProcessor creates a document processor.
//
// rasterizer and ocr are required for processing (validated at run start,
// so a search-only processor over a loaded snapshot works without them).
// translator, docCache, memory and normaliser may be nil; see the driven
// package for how each absence degrades.
func NewProcessor(
	rasterizer driven.Rasterizer,
	ocr driven.OCREngine,
	translator driven.Translator,
	index driven.VectorIndex,
	docCache driven.DocumentCache,
	memory driven.TranslationMemory,
	normaliser driven.Normaliser,
	opts ...ProcessorOption,
) *Processor {
	cfg := processorConfig{
		chunkSize:    chunker.DefaultChunkSize,
		chunkOverlap: chunker.DefaultChunkOverlap,
		maxWorkers:   domain.DefaultMaxWorkers,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	progress := NewProgressTracker()
	translations := NewTranslationCache(memory)
	chunkProcessor := chunker.New(
		chunker.WithChunkSize(cfg.chunkSize),
		chunker.WithOverlap(cfg.chunkOverlap),
	)

	return &Processor{
		rasterizer:   rasterizer,
		ocr:          ocr,
		index:        index,
		docCache:     docCache,
		pages:        NewPagePipeline(ocr, normaliser, chunkProcessor, translator, translations, progress),
		translations: translations,
		progress:     progress,
		maxWorkers:   cfg.maxWorkers,
		progressFn:   cfg.progressFn,
	}
}

// ProcessStreaming processes path page by page, yielding each page's result
// as soon as it is ready. A document-cache hit replays cached pages through
// the same stream contract without touching OCR or translation.
func (p *Processor) ProcessStreaming(ctx context.Context, path string, opts domain.ProcessOptions) (driving.PageStream, error) {
	docHash, err := domain.FileHash(path)
	if err != nil {
		return nil, err
	}

	// Cache short-circuit is always the first check.
	if opts.UseCache && p.docCache != nil {
		if cached, err := p.docCache.Load(ctx, docHash); err == nil {
			logger.Info("Replaying cached result for %s", path)
			return p.replayStream(cached), nil
		}
	}

	doc, err := p.openForRun(path)
	if err != nil {
		return nil, err
	}

	p.beginRun(doc.PageCount())
	stream := newPageStream()
	go p.produceStream(ctx, doc, docHash, opts, stream)
	return stream, nil
}

// ProcessBatch processes path in fixed-size page batches, running OCR for a
// batch's pages on a bounded worker pool, translating after the batch's OCR
// completes, and reassembling results in page order.
func (p *Processor) ProcessBatch(ctx context.Context, path string, opts domain.ProcessOptions) (*domain.DocumentResult, error) {
	docHash, err := domain.FileHash(path)
	if err != nil {
		return nil, err
	}

	if opts.UseCache && p.docCache != nil {
		if cached, err := p.docCache.Load(ctx, docHash); err == nil {
			logger.Info("Cache hit for %s", path)
			return cached, nil
		}
	}

	doc, err := p.openForRun(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	total := doc.PageCount()
	p.beginRun(total)
	p.progress.SetStage(domain.StageBatch)

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = domain.DefaultBatchSize
	}

	pages := make([]domain.PageResult, 0, total)
	for batchStart := 0; batchStart < total; batchStart += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batchEnd := batchStart + batchSize
		if batchEnd > total {
			batchEnd = total
		}
		pages = append(pages, p.processBatchPages(ctx, doc, batchStart, batchEnd, opts)...)
		p.notifyProgress()
	}

	p.progress.SetStage(domain.StageComplete)
	p.notifyProgress()

	result := buildDocumentResult(docHash, total, pages, opts.Translate)
	if opts.UseCache && p.docCache != nil {
		if err := p.docCache.Save(ctx, docHash, result); err != nil {
			logger.Warn("Document cache save failed: %v", err)
		}
	}
	return result, nil
}

// Search returns the topK indexed chunks most similar to query.
func (p *Processor) Search(query string, topK int) []domain.SearchResult {
	if topK <= 0 {
		topK = 5
	}
	return p.index.Search(query, topK)
}

// QueryContext answers a source-language query with the translations of its
// most relevant chunks. Untranslated chunks contribute their source text.
func (p *Processor) QueryContext(query string, contextChunks int) domain.QueryContext {
	if contextChunks <= 0 {
		contextChunks = 3
	}
	results := p.index.Search(query, contextChunks)

	qc := domain.QueryContext{
		Query:        query,
		Translations: make([]string, 0, len(results)),
		Context:      results,
	}
	for _, r := range results {
		if r.Chunk.TranslatedText != "" {
			qc.Translations = append(qc.Translations, r.Chunk.TranslatedText)
		} else {
			qc.Translations = append(qc.Translations, r.Chunk.Text)
		}
	}
	return qc
}

// Progress reports a snapshot of the current (or last) run.
func (p *Processor) Progress() domain.Progress {
	return p.progress.Snapshot()
}

// ClearTranslations empties the in-memory translation cache. The
// persistent translation memory is cleared through its own store.
func (p *Processor) ClearTranslations() {
	p.translations.Clear()
}

// openForRun validates collaborators and input before any processing
// starts. Input errors are fatal for the run; no partial run begins.
func (p *Processor) openForRun(path string) (driven.RasterDocument, error) {
	if p.ocr == nil {
		return nil, domain.ErrOCRUnavailable
	}
	if p.rasterizer == nil {
		return nil, domain.ErrRasterizerUnavailable
	}

	doc, err := p.rasterizer.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	if doc.PageCount() == 0 {
		doc.Close()
		return nil, domain.ErrNoPages
	}
	return doc, nil
}

func (p *Processor) beginRun(totalPages int) {
	runID := uuid.New().String()
	logger.Section("Document Run")
	logger.Info("Run %s: %d pages", runID, totalPages)
	p.progress.Reset(totalPages)
	p.index.Clear()
}

func (p *Processor) produceStream(ctx context.Context, doc driven.RasterDocument, docHash string, opts domain.ProcessOptions, stream *pageStream) {
	defer stream.finish()
	defer doc.Close()

	total := doc.PageCount()
	pages := make([]domain.PageResult, 0, total)

	for page := 0; page < total; page++ {
		if ctx.Err() != nil {
			return
		}
		p.progress.SetPage(page + 1)

		result := p.processOnePage(ctx, doc, page, opts)
		pages = append(pages, result)
		p.progress.PageDone(len(result.Chunks))
		p.notifyProgress()

		if !stream.send(result) {
			// Consumer abandoned the stream; stop without caching a
			// partial document.
			return
		}
	}

	p.progress.SetStage(domain.StageComplete)
	p.notifyProgress()

	if opts.UseCache && p.docCache != nil {
		result := buildDocumentResult(docHash, total, pages, opts.Translate)
		if err := p.docCache.Save(ctx, docHash, result); err != nil {
			logger.Warn("Document cache save failed: %v", err)
		}
	}
}

// replayStream serves cached pages through the streaming contract.
func (p *Processor) replayStream(cached *domain.DocumentResult) driving.PageStream {
	stream := newPageStream()
	go func() {
		defer stream.finish()
		for _, page := range cached.Pages {
			if !stream.send(page) {
				return
			}
		}
	}()
	return stream
}

// processOnePage renders, recognizes, translates and indexes one page.
// Failures never escape: they are recorded and the page contributes an
// empty (or error-annotated) result.
func (p *Processor) processOnePage(ctx context.Context, doc driven.RasterDocument, page int, opts domain.ProcessOptions) domain.PageResult {
	start := time.Now()

	image, err := doc.RenderPage(ctx, page)
	if err != nil {
		logger.Error("Render failed on page %d: %v", page+1, err)
		p.progress.RecordError(page+1, err)
		return domain.PageResult{
			PageNumber:     page + 1,
			Error:          err.Error(),
			ProcessingTime: time.Since(start).Seconds(),
		}
	}

	chunks := p.safeProcessPage(ctx, image, page, opts)
	if opts.Translate {
		p.pages.TranslateChunks(ctx, chunks, opts)
	}
	p.indexChunks(chunks)
	return buildPageResult(page, chunks, opts.Translate, time.Since(start))
}

// safeProcessPage converts a page-level panic into a recorded per-page
// error; the document run always continues.
func (p *Processor) safeProcessPage(ctx context.Context, image []byte, page int, opts domain.ProcessOptions) (chunks []domain.Chunk) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("page processing panic: %v", r)
			logger.Error("Page %d: %v", page+1, err)
			p.progress.RecordError(page+1, err)
			chunks = nil
		}
	}()
	return p.pages.ProcessPage(ctx, image, page, opts)
}

// batchPage carries one page through a batch's render/OCR/translate phases.
type batchPage struct {
	page      int
	image     []byte
	renderErr error
	chunks    []domain.Chunk
	took      time.Duration
}

// processBatchPages runs one batch: sequential rendering, pooled OCR,
// then translation, then in-order reassembly. Worker completion order is
// unspecified; page order of the returned results is not.
func (p *Processor) processBatchPages(ctx context.Context, doc driven.RasterDocument, batchStart, batchEnd int, opts domain.ProcessOptions) []domain.PageResult {
	batch := make([]*batchPage, 0, batchEnd-batchStart)
	for page := batchStart; page < batchEnd; page++ {
		bp := &batchPage{page: page}
		start := time.Now()
		bp.image, bp.renderErr = doc.RenderPage(ctx, page)
		bp.took = time.Since(start)
		if bp.renderErr != nil {
			logger.Error("Render failed on page %d: %v", page+1, bp.renderErr)
			p.progress.RecordError(page+1, bp.renderErr)
		}
		batch = append(batch, bp)
	}

	p.runBatchOCR(ctx, batch, opts)

	if opts.Translate {
		for _, bp := range batch {
			p.pages.TranslateChunks(ctx, bp.chunks, opts)
		}
	}

	results := make([]domain.PageResult, 0, len(batch))
	for _, bp := range batch {
		if bp.renderErr != nil {
			results = append(results, domain.PageResult{
				PageNumber:     bp.page + 1,
				Error:          bp.renderErr.Error(),
				ProcessingTime: bp.took.Seconds(),
			})
			p.progress.PageDone(0)
			continue
		}
		p.indexChunks(bp.chunks)
		results = append(results, buildPageResult(bp.page, bp.chunks, opts.Translate, bp.took))
		p.progress.PageDone(len(bp.chunks))
	}
	return results
}

// runBatchOCR recognizes a batch's pages on a bounded worker pool.
func (p *Processor) runBatchOCR(ctx context.Context, batch []*batchPage, opts domain.ProcessOptions) {
	jobs := make(chan *batchPage)
	var wg sync.WaitGroup

	workers := p.maxWorkers
	if workers > len(batch) {
		workers = len(batch)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for bp := range jobs {
				start := time.Now()
				bp.chunks = p.safeProcessPage(ctx, bp.image, bp.page, opts)
				bp.took += time.Since(start)
			}
		}()
	}

	for _, bp := range batch {
		if bp.renderErr == nil {
			jobs <- bp
		}
	}
	close(jobs)
	wg.Wait()
}

func (p *Processor) indexChunks(chunks []domain.Chunk) {
	if len(chunks) == 0 {
		return
	}
	refs := make([]*domain.Chunk, len(chunks))
	for i := range chunks {
		refs[i] = &chunks[i]
	}
	p.index.AddMany(refs)
}

func (p *Processor) notifyProgress() {
	if p.progressFn != nil {
		p.progressFn(p.progress.Snapshot())
	}
}

func buildPageResult(page int, chunks []domain.Chunk, translated bool, took time.Duration) domain.PageResult {
	texts := make([]string, len(chunks))
	translations := make([]string, len(chunks))
	var confSum float64
	for i := range chunks {
		texts[i] = chunks[i].Text
		translations[i] = chunks[i].TranslatedText
		confSum += chunks[i].OCRConfidence
	}

	result := domain.PageResult{
		PageNumber:     page + 1,
		Chunks:         chunks,
		Text:           strings.Join(texts, "\n\n"),
		ProcessingTime: took.Seconds(),
	}
	if translated {
		result.TranslatedText = strings.Join(translations, "\n\n")
	}
	if len(chunks) > 0 {
		result.AvgOCRConfidence = confSum / float64(len(chunks))
	}
	return result
}

func buildDocumentResult(docHash string, total int, pages []domain.PageResult, translated bool) *domain.DocumentResult {
	texts := make([]string, len(pages))
	translations := make([]string, len(pages))
	for i := range pages {
		texts[i] = pages[i].Text
		translations[i] = pages[i].TranslatedText
	}

	result := &domain.DocumentResult{
		DocHash:    docHash,
		TotalPages: total,
		Pages:      pages,
		FullText:   strings.Join(texts, domain.PageSeparator),
	}
	if translated {
		result.FullTranslation = strings.Join(translations, domain.PageSeparator)
	}
	return result
}
