package chunker

import (
	"fmt"

	"debloat/internal/domain"
	"debloat/internal/port"
)

// WindowPlanner splits text into fixed-size byte windows with 50% overlap
// between consecutive windows. The overlap keeps constructs cut by one window
// boundary fully visible to the neighbouring window.
type WindowPlanner struct{}

func NewWindowPlanner() *WindowPlanner {
	return &WindowPlanner{}
}

// Plan emits windows [off, off+windowSize) clipped to the text length,
// advancing by windowSize/2 each step. For every window after the first, the
// overlapping leading region is marked as context; only the fresh tail is the
// chunk's rewrite target, so the targets cover the text exactly once.
func (p *WindowPlanner) Plan(text string, windowSize int) ([]domain.Chunk, error) {
	stride := windowSize / 2
	if stride <= 0 {
		return nil, fmt.Errorf("%w: window size %d yields zero stride", domain.ErrConfig, windowSize)
	}

	var chunks []domain.Chunk
	for offset := 0; offset < len(text); offset += stride {
		end := offset + windowSize
		if end > len(text) {
			end = len(text)
		}

		targetStart := 0
		if offset > 0 {
			// The previous window already covered up to offset+stride.
			targetStart = stride
			if targetStart > end-offset {
				targetStart = end - offset
			}
		}

		chunks = append(chunks, domain.Chunk{
			Index:       len(chunks),
			Start:       offset,
			Text:        text[offset:end],
			TargetStart: targetStart,
		})
	}
	return chunks, nil
}

var _ port.Planner = (*WindowPlanner)(nil)
