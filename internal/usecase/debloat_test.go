package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"debloat/internal/adapter/chunker"
	"debloat/internal/adapter/llm"
	"debloat/internal/adapter/parser"
	"debloat/internal/domain"
	"debloat/internal/port"
)

// scriptedGenerator fails or answers per call, for mid-run failure scenarios.
type scriptedGenerator struct {
	respond func(call int) (string, error)
	calls   int
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	return g.respond(g.calls)
}

func (g *scriptedGenerator) ModelName() string { return "scripted" }

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.py")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newDebloater(gen port.Generator, windowSize int) *Debloater {
	return NewDebloater(gen, chunker.NewWindowPlanner(), parser.ExtractFencedCode, nil, windowSize)
}

func TestRunSingleChunk(t *testing.T) {
	var lines []string
	for i := 1; i <= 10; i++ {
		lines = append(lines, fmt.Sprintf("v%d = %d", i, i))
	}
	original := strings.Join(lines, "\n") + "\n"
	path := writeInput(t, original)

	gen := llm.NewMockGenerator("```\nline1\nline2\n```")
	d := newDebloater(gen, 65536)

	result, err := d.Run(context.Background(), path, nil)
	if err != nil {
		t.Fatal(err)
	}

	if result.OriginalLOC != 10 {
		t.Errorf("OriginalLOC = %d, want 10", result.OriginalLOC)
	}
	if result.NewLOC != 2 {
		t.Errorf("NewLOC = %d, want 2", result.NewLOC)
	}
	if got := fmt.Sprintf("%.2f", result.ReductionPct); got != "80.00" {
		t.Errorf("ReductionPct = %s, want 80.00", got)
	}
	if result.BackupPath != path+".bak" {
		t.Errorf("BackupPath = %s", result.BackupPath)
	}
	if gen.Calls() != 1 {
		t.Errorf("expected 1 backend call, got %d", gen.Calls())
	}

	rewritten, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(rewritten) != "line1\nline2" {
		t.Errorf("rewritten content = %q", rewritten)
	}

	backup, err := os.ReadFile(result.BackupPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(backup) != original {
		t.Error("backup does not match original content")
	}
}

func TestRunBackendFailureLeavesTargetUntouched(t *testing.T) {
	original := "0123456789"
	path := writeInput(t, original)

	gen := &scriptedGenerator{respond: func(call int) (string, error) {
		if call >= 2 {
			return "", fmt.Errorf("%w: connection reset", domain.ErrBackend)
		}
		return "```\nok\n```", nil
	}}
	d := newDebloater(gen, 8)

	_, err := d.Run(context.Background(), path, nil)
	if !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != original {
		t.Error("target file was modified despite the failed run")
	}
	if _, err := os.Stat(path + ".bak"); !os.IsNotExist(err) {
		t.Error("backup should not exist after an aborted run")
	}
}

func TestRunExtractionFailureLeavesTargetUntouched(t *testing.T) {
	original := "a = 1\nb = 2\n"
	path := writeInput(t, original)

	gen := llm.NewMockGenerator("I refuse to answer with code.")
	d := newDebloater(gen, 65536)

	_, err := d.Run(context.Background(), path, nil)
	if !errors.Is(err, domain.ErrNoCodeFence) {
		t.Fatalf("expected ErrNoCodeFence, got %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != original {
		t.Error("target file was modified despite the failed run")
	}
}

func TestRunBackupFailureLeavesTargetUntouched(t *testing.T) {
	original := "x = 1\n"
	path := writeInput(t, original)

	// A directory squatting on the backup path makes the backup write fail.
	if err := os.Mkdir(path+".bak", 0755); err != nil {
		t.Fatal(err)
	}

	gen := llm.NewMockGenerator("```\ny = 2\n```")
	d := newDebloater(gen, 65536)

	_, err := d.Run(context.Background(), path, nil)
	if err == nil {
		t.Fatal("expected an error when the backup cannot be written")
	}

	content, rerr := os.ReadFile(path)
	if rerr != nil {
		t.Fatal(rerr)
	}
	if string(content) != original {
		t.Error("target file was modified even though the backup failed")
	}
}

func TestRunEmptyFile(t *testing.T) {
	path := writeInput(t, "")

	gen := llm.NewMockGenerator()
	d := newDebloater(gen, 4096)

	result, err := d.Run(context.Background(), path, nil)
	if err != nil {
		t.Fatal(err)
	}

	if result.OriginalLOC != 0 {
		t.Errorf("OriginalLOC = %d, want 0", result.OriginalLOC)
	}
	if result.ReductionPct != 0 {
		t.Errorf("ReductionPct = %f, want 0", result.ReductionPct)
	}
	if gen.Calls() != 0 {
		t.Errorf("expected no backend calls for an empty file, got %d", gen.Calls())
	}
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Error("expected a backup even for an empty file")
	}
}

func TestRunMissingFile(t *testing.T) {
	gen := llm.NewMockGenerator()
	d := newDebloater(gen, 4096)

	_, err := d.Run(context.Background(), filepath.Join(t.TempDir(), "nope.py"), nil)
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestRunGuardRefusal(t *testing.T) {
	path := writeInput(t, "content\n")

	gen := llm.NewMockGenerator("```\nx\n```")
	guard := denyGuard{}
	d := NewDebloater(gen, chunker.NewWindowPlanner(), parser.ExtractFencedCode, guard, 4096)

	_, err := d.Run(context.Background(), path, nil)
	if err == nil {
		t.Fatal("expected the guard to refuse the file")
	}
	if gen.Calls() != 0 {
		t.Error("backend must not be called for a refused file")
	}
}

type denyGuard struct{}

func (denyGuard) Allows(string) bool { return false }

func TestRunReassemblesChunksInOrder(t *testing.T) {
	// Two-chunk input: window 8, stride 4 over 12 bytes.
	original := "aaaabbbbcccc"
	path := writeInput(t, original)

	gen := &scriptedGenerator{respond: func(call int) (string, error) {
		return fmt.Sprintf("```\npart%d\n```", call), nil
	}}
	d := newDebloater(gen, 8)

	_, err := d.Run(context.Background(), path, nil)
	if err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "part1\npart2" {
		t.Errorf("reassembled content = %q, want parts joined in chunk order", content)
	}
}

func TestRunProgressReported(t *testing.T) {
	original := strings.Repeat("line\n", 100)
	path := writeInput(t, original)

	gen := llm.NewMockGenerator("```\nx\n```")
	d := newDebloater(gen, 64)

	var last, total int
	_, err := d.Run(context.Background(), path, func(done, n int) {
		last, total = done, n
	})
	if err != nil {
		t.Fatal(err)
	}
	if total == 0 || last != total {
		t.Errorf("progress ended at %d/%d, want completion", last, total)
	}
}
