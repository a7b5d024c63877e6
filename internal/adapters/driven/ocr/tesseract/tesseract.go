// Package tesseract recognizes page images with a local Tesseract
// installation through gosseract.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
	"github.com/khasra-labs/khasra-cli/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// floresToTesseract maps FLORES language tags to Tesseract traineddata
// names. Unknown tags fall back to the part before the underscore.
var floresToTesseract = map[string]string{
	domain.LangUrdu:    "urd",
	domain.LangHindi:   "hin",
	domain.LangEnglish: "eng",
}

// Engine is a Tesseract-backed OCR engine. A fresh gosseract client is
// created per call; clients are not safe for concurrent use, engines are.
type Engine struct {
	clientFactory func() *gosseract.Client
	dpi           int
}

// Option configures the engine.
type Option func(*Engine)

// WithDPI sets the DPI hint passed to Tesseract for images without
// resolution metadata.
func WithDPI(dpi int) Option {
	return func(e *Engine) {
		if dpi > 0 {
			e.dpi = dpi
		}
	}
}

// New constructs a Tesseract-backed OCR engine.
func New(opts ...Option) *Engine {
	e := &Engine{clientFactory: gosseract.NewClient, dpi: 144}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize runs OCR over one page image. languages are FLORES tags; when
// none are given Tesseract's default (eng) applies.
func (e *Engine) Recognize(ctx context.Context, image []byte, languages ...string) (domain.OCRText, error) {
	if err := ctx.Err(); err != nil {
		return domain.OCRText{}, err
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(image); err != nil {
		return domain.OCRText{}, fmt.Errorf("set image: %w", err)
	}
	if langs := tesseractLanguages(languages); len(langs) > 0 {
		if err := c.SetLanguage(langs...); err != nil {
			return domain.OCRText{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if e.dpi > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(e.dpi)); err != nil {
			return domain.OCRText{}, fmt.Errorf("set dpi: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return domain.OCRText{}, fmt.Errorf("recognize text: %w", err)
	}

	return domain.OCRText{
		Text:       strings.TrimSpace(text),
		Confidence: wordConfidence(c),
		Backend:    e.Name(),
	}, nil
}

func (e *Engine) Close() error { return nil }

// wordConfidence averages Tesseract's per-word confidence onto the 0.0-1.0
// scale. Zero when no words were recognized.
func wordConfidence(c *gosseract.Client) float64 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence / 100.0
	}
	return sum / float64(len(boxes))
}

func tesseractLanguages(flores []string) []string {
	langs := make([]string, 0, len(flores))
	for _, tag := range flores {
		if tag == "" {
			continue
		}
		if mapped, ok := floresToTesseract[tag]; ok {
			langs = append(langs, mapped)
			continue
		}
		if base, _, found := strings.Cut(tag, "_"); found {
			langs = append(langs, base)
			continue
		}
		langs = append(langs, tag)
	}
	return langs
}
