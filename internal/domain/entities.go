package domain

import "time"

// Chunk is one window of the input text submitted as a single backend request.
// Start is the byte offset of the window in the original text. For every chunk
// after the first, the leading part of Text has already been covered by the
// previous chunk; TargetStart marks where this chunk's fresh region begins,
// relative to Text.
type Chunk struct {
	Index       int
	Start       int
	Text        string
	TargetStart int
}

// Context returns the already-covered leading part of the window.
func (c Chunk) Context() string {
	return c.Text[:c.TargetStart]
}

// Target returns the part of the window this chunk is responsible for rewriting.
func (c Chunk) Target() string {
	return c.Text[c.TargetStart:]
}

// Result holds the metrics of one completed debloat run.
type Result struct {
	OriginalLOC  int
	NewLOC       int
	ReductionPct float64
	BackupPath   string
}

// RunRecord is the persisted history entry for one run.
type RunRecord struct {
	Path         string    `json:"path"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	OriginalLOC  int       `json:"original_loc"`
	NewLOC       int       `json:"new_loc"`
	ReductionPct float64   `json:"reduction_pct"`
	BackupPath   string    `json:"backup_path"`
	DurationMS   int64     `json:"duration_ms"`
	Timestamp    time.Time `json:"timestamp"`
}
