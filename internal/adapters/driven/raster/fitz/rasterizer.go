// Package fitz renders scanned document pages to PNG images with MuPDF
// via go-fitz. It handles PDF as well as the image formats MuPDF reads.
package fitz

import (
	"context"
	"fmt"

	gofitz "github.com/gen2brain/go-fitz"

	"github.com/khasra-labs/khasra-cli/internal/core/ports/driven"
)

// Ensure the adapter implements the interfaces.
var (
	_ driven.Rasterizer     = (*Rasterizer)(nil)
	_ driven.RasterDocument = (*Document)(nil)
)

// DefaultDPI renders at twice the PDF's nominal 72 dpi, which keeps small
// Nastaliq glyphs legible to OCR without ballooning page images.
const DefaultDPI = 144

// Rasterizer opens documents for page rendering.
type Rasterizer struct {
	dpi float64
}

// Option configures the rasterizer.
type Option func(*Rasterizer)

// WithDPI sets the render resolution.
func WithDPI(dpi float64) Option {
	return func(r *Rasterizer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

// New creates a MuPDF-backed rasterizer.
func New(opts ...Option) *Rasterizer {
	r := &Rasterizer{dpi: DefaultDPI}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open opens the document at path. The caller owns the returned document
// and must Close it.
func (r *Rasterizer) Open(path string) (driven.RasterDocument, error) {
	doc, err := gofitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Document{doc: doc, dpi: r.dpi}, nil
}

// Document is an open document handle. Not safe for concurrent rendering;
// render pages from one goroutine.
type Document struct {
	doc *gofitz.Document
	dpi float64
}

func (d *Document) PageCount() int { return d.doc.NumPage() }

// RenderPage renders the zero-based page to PNG bytes.
func (d *Document) RenderPage(ctx context.Context, page int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	image, err := d.doc.ImagePNG(page, d.dpi)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page+1, err)
	}
	return image, nil
}

func (d *Document) Close() error { return d.doc.Close() }
