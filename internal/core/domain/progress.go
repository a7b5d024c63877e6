package domain

// Processing stages reported in Progress.CurrentStage. Per-page stages use
// the form "page_N" (one-based). Transitions only move forward: a run never
// returns to StageInitializing once page processing starts.
const (
	StageIdle         = "idle"
	StageInitializing = "initializing"
	StageBatch        = "batch_processing"
	StageComplete     = "complete"
)

// Progress is a point-in-time snapshot of a document run. It is produced by
// the progress tracker on demand; the derived fields (percent, elapsed,
// estimated remaining) are computed at snapshot time, not stored.
type Progress struct {
	TotalPages      int     `json:"total_pages"`
	ProcessedPages  int     `json:"processed_pages"`
	TotalChunks     int     `json:"total_chunks"`
	ProcessedChunks int     `json:"processed_chunks"`
	ProgressPercent float64 `json:"progress_percent"`
	CurrentStage    string  `json:"current_stage"`
	ElapsedSeconds  float64 `json:"elapsed_seconds"`

	// EstimatedRemainingSeconds extrapolates from current throughput.
	// Zero before the first page completes.
	EstimatedRemainingSeconds float64 `json:"estimated_remaining_seconds"`

	// Errors collects per-page failure messages ("Page N: ...").
	Errors []string `json:"errors"`
}
