package domain

import "unicode"

// Language tags use the FLORES convention expected by translation backends.
const (
	LangUrdu    = "urd_Arab"
	LangHindi   = "hin_Deva"
	LangEnglish = "eng_Latn"
)

// DetectLanguage classifies text by the dominant script of its letters.
// Arabic-script runes map to Urdu, Devanagari to Hindi, anything else to
// English. Land records in this corpus are single-script per page, so a
// simple majority vote is enough; empty or non-letter input is English.
func DetectLanguage(text string) string {
	var arabic, devanagari, latin int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case unicode.Is(unicode.Devanagari, r):
			devanagari++
		case unicode.IsLetter(r):
			latin++
		}
	}
	if arabic > devanagari && arabic > latin {
		return LangUrdu
	}
	if devanagari > arabic && devanagari > latin {
		return LangHindi
	}
	return LangEnglish
}
