package port

import "debloat/internal/domain"

// Planner splits input text into ordered, overlapping windows.
type Planner interface {
	Plan(text string, windowSize int) ([]domain.Chunk, error)
}
