package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
)

// ProgressTracker is the mutable per-run progress record. One instance is
// scoped to one document run; Reset starts a new run. All methods are safe
// for concurrent use - batch-mode workers report pages from multiple
// goroutines.
type ProgressTracker struct {
	mu              sync.Mutex
	totalPages      int
	processedPages  int
	totalChunks     int
	processedChunks int
	currentStage    string
	startTime       time.Time
	errors          []string

	// now is swappable for tests.
	now func() time.Time
}

// NewProgressTracker creates an idle tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		currentStage: domain.StageIdle,
		now:          time.Now,
	}
}

// Reset zeroes the tracker for a new run of totalPages pages.
func (p *ProgressTracker) Reset(totalPages int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.totalPages = totalPages
	p.processedPages = 0
	p.totalChunks = 0
	p.processedChunks = 0
	p.currentStage = domain.StageInitializing
	p.startTime = p.now()
	p.errors = nil
}

// SetStage records the current stage label.
func (p *ProgressTracker) SetStage(stage string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentStage = stage
}

// SetPage records the per-page stage label for a one-based page number.
func (p *ProgressTracker) SetPage(pageNumber int) {
	p.SetStage(fmt.Sprintf("page_%d", pageNumber))
}

// PageDone records a completed page and its chunk count.
func (p *ProgressTracker) PageDone(chunks int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processedPages++
	p.totalChunks += chunks
	p.processedChunks += chunks
}

// RecordError appends a per-page error, keyed by one-based page number.
func (p *ProgressTracker) RecordError(pageNumber int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors = append(p.errors, fmt.Sprintf("Page %d: %v", pageNumber, err))
}

// Errors returns a copy of the accumulated error list.
func (p *ProgressTracker) Errors() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.errors))
	copy(out, p.errors)
	return out
}

// Snapshot computes the derived fields and returns the current state.
// Estimated remaining time extrapolates from pages-per-second so far and is
// zero before the first page completes.
func (p *ProgressTracker) Snapshot() domain.Progress {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := domain.Progress{
		TotalPages:      p.totalPages,
		ProcessedPages:  p.processedPages,
		TotalChunks:     p.totalChunks,
		ProcessedChunks: p.processedChunks,
		CurrentStage:    p.currentStage,
		Errors:          append([]string(nil), p.errors...),
	}

	if p.totalPages > 0 {
		snap.ProgressPercent = float64(p.processedPages) / float64(p.totalPages) * 100
	}
	if !p.startTime.IsZero() {
		snap.ElapsedSeconds = p.now().Sub(p.startTime).Seconds()
	}
	if p.processedPages > 0 && snap.ElapsedSeconds > 0 {
		rate := float64(p.processedPages) / snap.ElapsedSeconds
		snap.EstimatedRemainingSeconds = float64(p.totalPages-p.processedPages) / rate
	}
	return snap
}
