package usecase

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"debloat/internal/adapter/analyzer"
	"debloat/internal/domain"
	"debloat/internal/port"
)

// FileGuard decides whether a file may be rewritten.
type FileGuard interface {
	Allows(path string) bool
}

// Debloater drives one rewrite run: read, chunk, generate, extract, join,
// backup, overwrite. The only side effects are the backup write and the
// target overwrite, in that order; every failure before the backup leaves
// the target byte-identical to its pre-run content.
type Debloater struct {
	gen        port.Generator
	planner    port.Planner
	extract    func(response string) (string, error)
	guard      FileGuard
	windowSize int
}

func NewDebloater(gen port.Generator, planner port.Planner, extract func(string) (string, error), guard FileGuard, windowSize int) *Debloater {
	return &Debloater{
		gen:        gen,
		planner:    planner,
		extract:    extract,
		guard:      guard,
		windowSize: windowSize,
	}
}

// Run rewrites the file at path and returns the before/after metrics.
// progress, if non-nil, is called after each chunk completes.
func (d *Debloater) Run(ctx context.Context, path string, progress func(done, total int)) (domain.Result, error) {
	if d.guard != nil && !d.guard.Allows(path) {
		return domain.Result{}, fmt.Errorf("refusing to rewrite %s: path matches no include pattern (use --force to override)", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return domain.Result{}, fmt.Errorf("failed to stat file: %w", err)
	}

	original, err := os.ReadFile(path)
	if err != nil {
		return domain.Result{}, fmt.Errorf("failed to read file: %w", err)
	}
	text := string(original)
	originalLOC := analyzer.CountSignificantLines(text)

	chunks, err := d.planner.Plan(text, d.windowSize)
	if err != nil {
		return domain.Result{}, err
	}

	processed := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.Target() == "" {
			// The window is fully covered by its predecessor; nothing
			// fresh to rewrite.
			if progress != nil {
				progress(chunk.Index+1, len(chunks))
			}
			continue
		}

		prompt, err := BuildPrompt(chunk)
		if err != nil {
			return domain.Result{}, fmt.Errorf("chunk %d: %w", chunk.Index, err)
		}

		response, err := d.gen.Generate(ctx, prompt)
		if err != nil {
			return domain.Result{}, fmt.Errorf("chunk %d: %w", chunk.Index, err)
		}

		code, err := d.extract(response)
		if err != nil {
			return domain.Result{}, fmt.Errorf("chunk %d: %w", chunk.Index, err)
		}
		processed = append(processed, code)

		if progress != nil {
			progress(chunk.Index+1, len(chunks))
		}
	}

	newText := strings.Join(processed, "\n")
	newLOC := analyzer.CountSignificantLines(newText)

	reduction := 0.0
	if originalLOC > 0 {
		reduction = float64(originalLOC-newLOC) / float64(originalLOC) * 100
	}

	backupPath := path + ".bak"
	if err := writeBackup(backupPath, original, info.Mode()); err != nil {
		return domain.Result{}, fmt.Errorf("failed to write backup, target untouched: %w", err)
	}

	if err := os.WriteFile(path, []byte(newText), info.Mode()); err != nil {
		return domain.Result{}, fmt.Errorf("failed to overwrite target (original preserved at %s): %w", backupPath, err)
	}

	return domain.Result{
		OriginalLOC:  originalLOC,
		NewLOC:       newLOC,
		ReductionPct: reduction,
		BackupPath:   backupPath,
	}, nil
}

// writeBackup persists the pre-run content and syncs it to disk before the
// target is allowed to change.
func writeBackup(path string, data []byte, mode fs.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
