// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - OCREngine: Recognizes text in page images
//   - Rasterizer: Opens documents and renders pages to images
//   - EmbeddingService: Generates chunk/query embeddings
//   - VectorIndex: Stores embeddings and answers similarity queries
//
// # Optional Interfaces
//
// These can be nil - the pipeline degrades gracefully:
//
//   - Translator: Without it, chunks keep their source text as translation.
//   - DocumentCache: Without it, every run re-processes from scratch.
//   - TranslationMemory: Without it, translations are only cached in memory
//     for the life of one processor instance.
//   - Normaliser: Without it, raw OCR text is chunked unmodified.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
