package driving

import (
	"context"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
)

// PageStream delivers page results incrementally, in page order, as each
// page finishes. The consumer owns the stream: it may stop calling Next at
// any time and call Close to release the producer.
type PageStream interface {
	// Next blocks until the next page result is ready. The second return
	// is false once the stream is exhausted or closed; after that every
	// call returns false immediately.
	Next() (domain.PageResult, bool)

	// Close abandons the stream. Pages not yet produced are never
	// processed. Safe to call multiple times and after exhaustion.
	Close()
}

// DocumentProcessor is the core's public surface: it drives OCR, chunking
// and translation across the pages of one scanned land-record document, and
// answers retrieval queries over the processed chunks.
type DocumentProcessor interface {
	// ProcessStreaming processes path page by page, returning a stream
	// that yields each page's result as soon as it is ready. When the
	// document cache holds a completed result for the file's content
	// hash and opts.UseCache is set, the stream replays cached pages
	// without invoking OCR or translation.
	//
	// Input validation failures (missing file, zero pages) are returned
	// here, before any processing starts.
	ProcessStreaming(ctx context.Context, path string, opts domain.ProcessOptions) (PageStream, error)

	// ProcessBatch processes path in fixed-size page batches with
	// concurrent OCR inside each batch, returning only after every page
	// is done. Pages appear in the result in page order regardless of
	// OCR completion order. Same cache short-circuit as streaming mode.
	ProcessBatch(ctx context.Context, path string, opts domain.ProcessOptions) (*domain.DocumentResult, error)

	// Search returns the topK chunks of the current document most
	// similar to query.
	Search(query string, topK int) []domain.SearchResult

	// QueryContext returns the translations of the chunks most relevant
	// to a source-language query.
	QueryContext(query string, contextChunks int) domain.QueryContext

	// Progress reports a snapshot of the in-flight (or last) run.
	Progress() domain.Progress
}

// ProgressFunc observes run progress; invoked after every processed page.
type ProgressFunc func(domain.Progress)
