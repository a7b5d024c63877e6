package driven

import (
	"context"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
)

// OCREngine recognizes text in a rendered page image.
//
// Implementations may include:
//   - Tesseract via gosseract (urd/hin/eng traineddata)
//   - Cloud vision APIs
//
// Confidence in the returned OCRText must be normalized to 0.0-1.0.
type OCREngine interface {
	// Recognize extracts text from an encoded image (PNG or JPEG bytes).
	// Languages hints the engine at the expected scripts; an empty slice
	// lets the engine use its configured default.
	Recognize(ctx context.Context, image []byte, languages ...string) (domain.OCRText, error)

	// Name identifies the backend, recorded in chunk metadata.
	Name() string

	// Close releases engine resources.
	Close() error
}
