package chunker

import (
	"errors"
	"strings"
	"testing"

	"debloat/internal/domain"
)

func TestWindowPlannerOffsets(t *testing.T) {
	text := strings.Repeat("a", 9000)
	planner := NewWindowPlanner()

	chunks, err := planner.Plan(text, 4096)
	if err != nil {
		t.Fatal(err)
	}

	wantOffsets := []int{0, 2048, 4096, 6144, 8192}
	if len(chunks) != len(wantOffsets) {
		t.Fatalf("expected %d chunks, got %d", len(wantOffsets), len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.Start != wantOffsets[i] {
			t.Errorf("chunk %d: start = %d, want %d", i, chunk.Start, wantOffsets[i])
		}
		if chunk.Index != i {
			t.Errorf("chunk %d: index = %d", i, chunk.Index)
		}
	}

	last := chunks[len(chunks)-1]
	if last.Start+len(last.Text) != len(text) {
		t.Errorf("last chunk ends at %d, want %d", last.Start+len(last.Text), len(text))
	}
}

func TestWindowPlannerTargetsCoverText(t *testing.T) {
	texts := []string{
		"",
		"short",
		strings.Repeat("x", 100),
		strings.Repeat("line of text\n", 500),
		strings.Repeat("y", 9000),
	}
	windows := []int{2, 7, 64, 4096}

	planner := NewWindowPlanner()
	for _, text := range texts {
		for _, w := range windows {
			chunks, err := planner.Plan(text, w)
			if err != nil {
				t.Fatalf("Plan(len=%d, w=%d): %v", len(text), w, err)
			}

			var joined strings.Builder
			for _, c := range chunks {
				joined.WriteString(c.Target())
			}
			if joined.String() != text {
				t.Errorf("Plan(len=%d, w=%d): targets do not reassemble the input", len(text), w)
			}
		}
	}
}

func TestWindowPlannerOverlap(t *testing.T) {
	text := strings.Repeat("z", 1000)
	planner := NewWindowPlanner()

	chunks, err := planner.Plan(text, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) < 2 {
		t.Fatal("expected multiple chunks")
	}

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		cur := chunks[i]
		if cur.Start != prev.Start+50 {
			t.Errorf("chunk %d: start = %d, want %d", i, cur.Start, prev.Start+50)
		}
		if cur.TargetStart == 0 && cur.Target() != "" {
			t.Errorf("chunk %d: non-first chunk must mark overlap as context", i)
		}
	}
}

func TestWindowPlannerDeterministic(t *testing.T) {
	text := strings.Repeat("abc", 500)
	planner := NewWindowPlanner()

	first, err := planner.Plan(text, 128)
	if err != nil {
		t.Fatal(err)
	}
	second, err := planner.Plan(text, 128)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestWindowPlannerDegenerateWindow(t *testing.T) {
	planner := NewWindowPlanner()
	for _, w := range []int{0, 1, -5} {
		if _, err := planner.Plan("some text", w); !errors.Is(err, domain.ErrConfig) {
			t.Errorf("Plan(w=%d): expected config error, got %v", w, err)
		}
	}
}

func TestWindowPlannerEmptyText(t *testing.T) {
	planner := NewWindowPlanner()
	chunks, err := planner.Plan("", 4096)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
}
