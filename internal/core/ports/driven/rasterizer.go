package driven

import "context"

// Rasterizer opens a scanned document (PDF or single image) and renders its
// pages to images suitable for OCR.
type Rasterizer interface {
	// Open prepares a document for page rendering.
	Open(path string) (RasterDocument, error)
}

// RasterDocument is one open document. Pages are rendered lazily, one at a
// time, so a 200-page register never has all its page images in memory at
// once. Callers must Close when done.
type RasterDocument interface {
	// PageCount reports the number of renderable pages.
	PageCount() int

	// RenderPage renders the zero-based page to encoded PNG bytes.
	RenderPage(ctx context.Context, page int) ([]byte, error)

	// Close releases the underlying document handle.
	Close() error
}
