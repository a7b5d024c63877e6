package domain

// Chunk is a bounded segment of one page's OCR text. Chunks are the unit of
// translation and retrieval. IDs are deterministic within a document:
// "p{page}_c{index}" where page is the zero-based page index.
//
// Confidence values are stored on a 0.0-1.0 scale for both OCR and
// translation, regardless of the scale the producing backend reports.
type Chunk struct {
	// ID is the chunk identifier, stable across re-processing of the
	// same document ("p0_c0", "p0_c1", "p1_c0", ...).
	ID string `json:"chunk_id"`

	// PageNumber is the zero-based index of the page this chunk came from.
	PageNumber int `json:"page_number"`

	// Text is the source-language text. Never empty for a materialized chunk.
	Text string `json:"text"`

	// TranslatedText is the English translation. Empty until translated.
	TranslatedText string `json:"translated_text"`

	// Embedding is the vector representation, nil until indexed.
	// Excluded from JSON; snapshots carry embeddings as a separate matrix.
	Embedding []float64 `json:"-"`

	// OCRConfidence is the mean recognition confidence for the source page.
	OCRConfidence float64 `json:"ocr_confidence"`

	// TranslationConfidence reports how trustworthy TranslatedText is.
	// 0.0 means translation failed or was never attempted.
	TranslationConfidence float64 `json:"translation_confidence"`

	// Metadata carries free-form tags such as the OCR backend name or
	// whether the translation was a cache hit.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// OCRText is the result of recognizing one page image.
type OCRText struct {
	// Text is the raw recognized text.
	Text string

	// Confidence is the mean word confidence, 0.0-1.0.
	Confidence float64

	// Backend identifies the engine that produced the text ("tesseract", ...).
	Backend string
}

// PageResult is the per-page output of a document run. PageNumber here is
// one-based, matching how callers count pages.
type PageResult struct {
	PageNumber int     `json:"page_number"`
	Chunks     []Chunk `json:"chunks"`

	// Text is the page's chunks joined by blank lines.
	Text string `json:"text"`

	// TranslatedText is the translated chunks joined by blank lines.
	// Empty when translation was not requested.
	TranslatedText string `json:"translated_text"`

	// AvgOCRConfidence is the mean OCR confidence over the page's chunks,
	// zero for a page that produced no chunks.
	AvgOCRConfidence float64 `json:"avg_ocr_confidence"`

	// ProcessingTime is the wall-clock seconds spent on this page.
	ProcessingTime float64 `json:"processing_time"`

	// Error is set when the page failed outright (OCR error, panic).
	// The page still appears in the result with zero chunks.
	Error string `json:"error,omitempty"`
}

// DocumentResult is the aggregated output of a whole document run.
// This is also the shape persisted by the document cache.
type DocumentResult struct {
	// DocHash is the hex content hash of the input file's bytes.
	DocHash string `json:"doc_hash"`

	TotalPages int          `json:"total_pages"`
	Pages      []PageResult `json:"pages"`

	// FullText joins every page's text with a page-break separator.
	FullText string `json:"full_text"`

	// FullTranslation joins every page's translation the same way.
	FullTranslation string `json:"full_translation"`
}

// PageSeparator joins page texts in DocumentResult.FullText.
const PageSeparator = "\n\n---\n\n"

// SearchResult pairs a chunk with its similarity to a query.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"similarity_score"`
}

// QueryContext is the retrieval-augmented answer to a source-language query:
// the most relevant chunks and their translations.
type QueryContext struct {
	Query        string         `json:"query"`
	Translations []string       `json:"translations"`
	Context      []SearchResult `json:"context"`
}

// ProcessOptions control one document run.
type ProcessOptions struct {
	// Translate enables per-chunk translation.
	Translate bool

	// SourceLang and TargetLang are translator language tags
	// (FLORES-style, e.g. "urd_Arab", "eng_Latn"). When SourceLang is
	// empty the orchestrator detects it from the first page's script.
	SourceLang string
	TargetLang string

	// UseCache enables the document cache short-circuit and write-back.
	UseCache bool

	// BatchSize is the number of pages per batch in batch mode.
	// Zero means DefaultBatchSize.
	BatchSize int
}

// DefaultBatchSize is the number of pages processed per batch-mode batch.
const DefaultBatchSize = 10

// DefaultMaxWorkers bounds concurrent OCR calls within a batch.
const DefaultMaxWorkers = 4
