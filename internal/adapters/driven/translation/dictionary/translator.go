// Package dictionary provides an offline word-for-word translator for the
// recurring vocabulary of land revenue records. It is the fallback when no
// model-backed translator is configured; anything outside the dictionary
// passes through untranslated.
package dictionary

import (
	"context"
	"strings"

	"github.com/khasra-labs/khasra-cli/internal/core/ports/driven"
)

// Ensure Translator implements the interface.
var _ driven.Translator = (*Translator)(nil)

// terms maps Urdu and Hindi revenue vocabulary to English. Keys are
// matched per whitespace-separated token after stripping punctuation.
var terms = map[string]string{
	// Urdu
	"موضع":   "village",
	"تحصیل":  "tehsil",
	"ضلع":    "district",
	"کھیوٹ":  "khewat",
	"کھسرہ":  "khasra",
	"خسرہ":   "khasra",
	"مالک":   "owner",
	"قبضہ":   "possession",
	"اراضی":  "land",
	"رقبہ":   "area",
	"کنال":   "kanal",
	"مرلہ":   "marla",
	"نمبر":   "number",
	"فرد":    "fard",
	"جمابندی": "jamabandi",
	"پٹواری": "patwari",
	// Hindi
	"ग्राम":    "village",
	"तहसील":    "tehsil",
	"जिला":     "district",
	"खेवट":     "khewat",
	"खसरा":     "khasra",
	"मालिक":    "owner",
	"कब्जा":    "possession",
	"भूमि":     "land",
	"क्षेत्रफल": "area",
	"कनाल":     "kanal",
	"मरला":     "marla",
	"संख्या":   "number",
	"जमाबंदी":  "jamabandi",
	"पटवारी":   "patwari",
}

// punctuation stripped from token edges before lookup.
const punctuation = "،؍۔.,:;!?()[]{}\"'"

// Translator substitutes known revenue terms and leaves the rest of the
// text as-is.
type Translator struct{}

func New() *Translator { return &Translator{} }

func (t *Translator) Name() string { return "dictionary" }

// Confidence reflects that only isolated terms are translated.
func (t *Translator) Confidence() float64 { return 0.3 }

// Translate substitutes dictionary terms token by token. src and tgt are
// accepted for interface compatibility; the dictionary always targets
// English.
func (t *Translator) Translate(_ context.Context, text, _, _ string) (string, error) {
	var out strings.Builder
	out.Grow(len(text))

	rest := text
	for rest != "" {
		i := strings.IndexAny(rest, " \t\n")
		var token, sep string
		if i < 0 {
			token, rest = rest, ""
		} else {
			token, sep, rest = rest[:i], rest[i:i+1], rest[i+1:]
		}
		out.WriteString(translateToken(token))
		out.WriteString(sep)
	}
	return out.String(), nil
}

func translateToken(token string) string {
	core := strings.Trim(token, punctuation)
	if core == "" {
		return token
	}
	translated, ok := terms[core]
	if !ok {
		return token
	}

	prefix := token[:strings.Index(token, core)]
	suffix := token[strings.Index(token, core)+len(core):]
	return prefix + translated + suffix
}
