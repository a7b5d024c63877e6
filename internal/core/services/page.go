package services

import (
	"context"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
	"github.com/khasra-labs/khasra-cli/internal/core/ports/driven"
	"github.com/khasra-labs/khasra-cli/internal/logger"
	"github.com/khasra-labs/khasra-cli/internal/postprocessors/chunker"
)

// Chunk metadata keys written by the page processor.
const (
	metaOCRBackend        = "ocr_backend"
	metaTranslationMethod = "translation_method"
	metaTranslationCached = "translation_cached"
	metaTranslationError  = "translation_error"
)

// cachedTranslationConfidence is recorded on chunks whose translation came
// from the cache rather than a live translator call.
const cachedTranslationConfidence = 0.95

// PagePipeline turns one rendered page image into tagged, translated
// chunks. Every step fails independently without aborting the page's
// document run: OCR failure yields zero chunks plus a recorded error,
// translation failure leaves the source text in place with zero confidence.
type PagePipeline struct {
	ocr        driven.OCREngine
	normaliser driven.Normaliser
	chunker    *chunker.Processor
	translator driven.Translator
	cache      *TranslationCache
	progress   *ProgressTracker
}

// NewPagePipeline wires a page pipeline. normaliser and translator may be
// nil; ocr must not be.
func NewPagePipeline(
	ocr driven.OCREngine,
	normaliser driven.Normaliser,
	chunkProcessor *chunker.Processor,
	translator driven.Translator,
	cache *TranslationCache,
	progress *ProgressTracker,
) *PagePipeline {
	return &PagePipeline{
		ocr:        ocr,
		normaliser: normaliser,
		chunker:    chunkProcessor,
		translator: translator,
		cache:      cache,
		progress:   progress,
	}
}

// ProcessPage recognizes and chunks one page image. page is zero-based.
// Returns nil (never an error) when OCR fails; the failure lands in the
// progress tracker keyed by the one-based page number.
func (pp *PagePipeline) ProcessPage(ctx context.Context, image []byte, page int, opts domain.ProcessOptions) []domain.Chunk {
	var languages []string
	if opts.SourceLang != "" {
		languages = append(languages, opts.SourceLang)
	}

	result, err := pp.ocr.Recognize(ctx, image, languages...)
	if err != nil {
		logger.Error("OCR failed on page %d: %v", page+1, err)
		pp.progress.RecordError(page+1, err)
		return nil
	}

	text := result.Text
	if pp.normaliser != nil {
		text = pp.normaliser.Normalise(text)
	}

	chunks := pp.chunker.Chunk(text, page)
	for i := range chunks {
		chunks[i].OCRConfidence = result.Confidence
		chunks[i].Metadata[metaOCRBackend] = result.Backend
	}
	logger.Debug("Page %d: %d chunks, OCR confidence %.2f (%s)",
		page+1, len(chunks), result.Confidence, result.Backend)
	return chunks
}

// TranslateChunks fills TranslatedText on every chunk, consulting the
// translation cache first. Chunks are never dropped: a failed translation
// keeps the source text with confidence zero and the error in metadata.
// When opts.SourceLang is empty the source language is detected from the
// first chunk's script.
func (pp *PagePipeline) TranslateChunks(ctx context.Context, chunks []domain.Chunk, opts domain.ProcessOptions) {
	if len(chunks) == 0 {
		return
	}

	srcLang := opts.SourceLang
	if srcLang == "" {
		srcLang = domain.DetectLanguage(chunks[0].Text)
		logger.Debug("Detected source language %s", srcLang)
	}
	tgtLang := opts.TargetLang
	if tgtLang == "" {
		tgtLang = domain.LangEnglish
	}

	for i := range chunks {
		pp.translateChunk(ctx, &chunks[i], srcLang, tgtLang)
	}
}

func (pp *PagePipeline) translateChunk(ctx context.Context, chunk *domain.Chunk, srcLang, tgtLang string) {
	if pp.translator == nil {
		chunk.TranslatedText = chunk.Text
		chunk.TranslationConfidence = 0.0
		return
	}

	translated, cached, err := pp.cache.GetOrTranslate(ctx, chunk.Text, func(ctx context.Context, text string) (string, error) {
		return pp.translator.Translate(ctx, text, srcLang, tgtLang)
	})
	if err != nil {
		logger.Error("Translation failed for chunk %s: %v", chunk.ID, err)
		chunk.TranslatedText = chunk.Text
		chunk.TranslationConfidence = 0.0
		chunk.Metadata[metaTranslationError] = err.Error()
		return
	}

	chunk.TranslatedText = translated
	if cached {
		chunk.TranslationConfidence = cachedTranslationConfidence
		chunk.Metadata[metaTranslationCached] = "true"
		return
	}
	chunk.TranslationConfidence = pp.translator.Confidence()
	chunk.Metadata[metaTranslationMethod] = pp.translator.Name()
}
