package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
	"github.com/khasra-labs/khasra-cli/internal/core/ports/driven"
)

// pageImage encodes a page index as fake image bytes so the fake OCR engine
// can look up the page's configured text.
func pageImage(page int) []byte {
	return []byte(fmt.Sprintf("page-%d", page))
}

func pageFromImage(image []byte) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(string(image), "page-"))
	return n
}

// fakeRasterDoc serves configured page images.
type fakeRasterDoc struct {
	pages       int
	renderErrs  map[int]error
	renderDelay time.Duration
	closed      bool
}

func (d *fakeRasterDoc) PageCount() int { return d.pages }

func (d *fakeRasterDoc) RenderPage(_ context.Context, page int) ([]byte, error) {
	if d.renderDelay > 0 {
		time.Sleep(d.renderDelay)
	}
	if err, ok := d.renderErrs[page]; ok {
		return nil, err
	}
	return pageImage(page), nil
}

func (d *fakeRasterDoc) Close() error {
	d.closed = true
	return nil
}

// fakeRasterizer opens a fresh fakeRasterDoc per call.
type fakeRasterizer struct {
	pages       int
	renderErrs  map[int]error
	renderDelay time.Duration
	openErr     error

	mu      sync.Mutex
	lastDoc *fakeRasterDoc
	openCnt int
}

func (r *fakeRasterizer) Open(string) (driven.RasterDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.openErr != nil {
		return nil, r.openErr
	}
	r.openCnt++
	r.lastDoc = &fakeRasterDoc{pages: r.pages, renderErrs: r.renderErrs, renderDelay: r.renderDelay}
	return r.lastDoc, nil
}

func (r *fakeRasterizer) openCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.openCnt
}

// fakeOCR returns configured text per page and counts calls.
type fakeOCR struct {
	mu        sync.Mutex
	texts     map[int]string
	errs      map[int]error
	conf      float64
	calls     int
	panicPage int // page index that panics; -1 disables
}

func newFakeOCR(texts map[int]string) *fakeOCR {
	return &fakeOCR{texts: texts, conf: 0.9, panicPage: -1}
}

func (o *fakeOCR) Recognize(_ context.Context, image []byte, _ ...string) (domain.OCRText, error) {
	o.mu.Lock()
	o.calls++
	o.mu.Unlock()

	page := pageFromImage(image)
	if page == o.panicPage {
		panic("ocr engine corrupted state")
	}
	if err, ok := o.errs[page]; ok {
		return domain.OCRText{}, err
	}
	return domain.OCRText{Text: o.texts[page], Confidence: o.conf, Backend: "fake"}, nil
}

func (o *fakeOCR) Name() string { return "fake" }

func (o *fakeOCR) Close() error { return nil }

func (o *fakeOCR) callCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

// fakeTranslator prefixes text and counts calls.
type fakeTranslator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (t *fakeTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	if t.err != nil {
		return "", t.err
	}
	return "EN: " + text, nil
}

func (t *fakeTranslator) Name() string { return "fake-translator" }

func (t *fakeTranslator) Confidence() float64 { return 0.9 }

func (t *fakeTranslator) callCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// fakeDocCache is an in-memory driven.DocumentCache.
type fakeDocCache struct {
	mu      sync.Mutex
	entries map[string]*domain.DocumentResult
	saves   int
}

func newFakeDocCache() *fakeDocCache {
	return &fakeDocCache{entries: make(map[string]*domain.DocumentResult)}
}

func (c *fakeDocCache) Load(_ context.Context, docHash string) (*domain.DocumentResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.entries[docHash]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (c *fakeDocCache) Save(_ context.Context, docHash string, result *domain.DocumentResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[docHash] = result
	c.saves++
	return nil
}

func (c *fakeDocCache) Clear(_ context.Context, docHash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if docHash == "" {
		c.entries = make(map[string]*domain.DocumentResult)
		return nil
	}
	delete(c.entries, docHash)
	return nil
}
