package driven

// Normaliser cleans raw OCR output before chunking: newline normalization,
// control-character stripping, garbage-line filtering. Optional; nil means
// raw OCR text is chunked as-is.
type Normaliser interface {
	// Normalise returns the cleaned text. Must be a pure function.
	Normalise(text string) string
}
