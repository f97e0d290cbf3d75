package port

import "debloat/internal/domain"

// History persists completed run records.
type History interface {
	PutRun(rec domain.RunRecord) error
	RecentRuns(limit int) ([]domain.RunRecord, error)
	Close() error
}
