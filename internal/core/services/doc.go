// Package services implements the driving port interfaces.
// Services contain the core pipeline logic - progress tracking, cached
// translation, per-page processing and whole-document orchestration - and
// call out through driven ports for OCR, translation, rasterization and
// persistence.
//
// Services are pure Go with no CGO or external dependencies.
package services
