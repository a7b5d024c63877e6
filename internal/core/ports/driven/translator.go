package driven

import "context"

// Translator converts text between languages. Language tags are FLORES-style
// codes ("urd_Arab", "hin_Deva", "eng_Latn") and are opaque to the core.
//
// Implementations may include:
//   - OpenAI-compatible chat models
//   - Offline dictionary lookup for land-record vocabulary
//
// Translation is assumed deterministic for identical input, which is what
// makes content-hash caching of results safe.
type Translator interface {
	// Translate returns the text rendered in the target language.
	Translate(ctx context.Context, text, srcLang, tgtLang string) (string, error)

	// Name identifies the backend, recorded in chunk metadata.
	Name() string

	// Confidence is the score recorded on chunks this backend translates,
	// 0.0-1.0. A dictionary fallback reports lower confidence than a model.
	Confidence() float64
}
