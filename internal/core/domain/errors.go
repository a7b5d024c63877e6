package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoPages indicates the input document contains zero pages.
	// Fatal for the run; no processing is started.
	ErrNoPages = errors.New("document has no pages")

	// ErrOCRUnavailable indicates no OCR engine is configured.
	// Document processing is impossible without one.
	ErrOCRUnavailable = errors.New("OCR engine unavailable")

	// ErrTranslatorUnavailable indicates the configured translation
	// backend cannot be used.
	ErrTranslatorUnavailable = errors.New("translator unavailable")

	// ErrRasterizerUnavailable indicates no page rasterizer is configured.
	ErrRasterizerUnavailable = errors.New("rasterizer unavailable")
)
