package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"debloat/config"
	"debloat/internal/adapter/chunker"
	"debloat/internal/adapter/fs"
	"debloat/internal/adapter/llm"
	"debloat/internal/adapter/parser"
	"debloat/internal/adapter/store"
	"debloat/internal/domain"
	"debloat/internal/usecase"
)

var (
	runProvider int
	runWindow   int
	runModel    string
	runForce    bool
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Rewrite a source file to remove bloat",
	Long: `Rewrite the given file with the configured inference backend.
The file is split into overlapping windows, each window is rewritten by the
model, and the results are reassembled. The original content is written to
<file>.bak before the file itself is touched.

Providers: 0 = ollama (local), 1 = openai, 2 = deepseek.

Examples:
  debloat run main.py
  debloat run main.py --provider 2 --window 8192`,
	Args: cobra.ExactArgs(1),
	RunE: runDebloat,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVarP(&runProvider, "provider", "p", -1, "provider selector (0=ollama, 1=openai, 2=deepseek)")
	runCmd.Flags().IntVarP(&runWindow, "window", "w", 0, "chunk window size in bytes (overrides config)")
	runCmd.Flags().StringVarP(&runModel, "model", "m", "", "model name (overrides config)")
	runCmd.Flags().BoolVarP(&runForce, "force", "f", false, "skip the include/exclude file guard")
}

func runDebloat(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	cfg := GetConfig()
	if runProvider >= 0 {
		if err := cfg.ApplyProviderIndex(runProvider); err != nil {
			return err
		}
	}
	if runWindow > 0 {
		cfg.Chunk.WindowSize = runWindow
	}
	if runModel != "" {
		cfg.Backend.Model = runModel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	gen, err := llm.NewFromConfig(cfg.Backend)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if ollama, ok := gen.(*llm.OllamaGenerator); ok {
		fmt.Printf("Checking local model %s...\n", gen.ModelName())
		if err := ollama.EnsureModel(ctx); err != nil {
			return err
		}
	}

	var guard usecase.FileGuard
	if !runForce {
		guard = fs.NewGuard(cfg.Guard.Includes, cfg.Guard.Excludes)
	}

	debloater := usecase.NewDebloater(gen, chunker.NewWindowPlanner(), parser.ExtractFencedCode, guard, cfg.Chunk.WindowSize)

	fmt.Printf("Rewriting %s with %s...\n", path, gen.ModelName())

	var bar *progressbar.ProgressBar
	progress := func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("[cyan]Debloating[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(done)
	}

	start := time.Now()
	result, err := debloater.Run(ctx, path, progress)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Code Metrics ===\n")
	fmt.Printf("Original LOC: %d\n", result.OriginalLOC)
	fmt.Printf("New LOC:      %d\n", result.NewLOC)
	fmt.Printf("Reduction:    %.2f%%\n", result.ReductionPct)
	fmt.Printf("Backup saved: %s\n", result.BackupPath)
	fmt.Printf("====================\n")

	recordRun(cfg, domain.RunRecord{
		Path:         path,
		Provider:     cfg.Backend.Provider,
		Model:        gen.ModelName(),
		OriginalLOC:  result.OriginalLOC,
		NewLOC:       result.NewLOC,
		ReductionPct: result.ReductionPct,
		BackupPath:   result.BackupPath,
		DurationMS:   time.Since(start).Milliseconds(),
		Timestamp:    time.Now(),
	})

	return nil
}

// recordRun appends the run to the history store. The rewrite itself already
// succeeded, so a history failure is a warning rather than an error.
func recordRun(cfg *config.Config, rec domain.RunRecord) {
	if !cfg.History.Enabled {
		return
	}

	dbPath, err := cfg.HistoryDBPath()
	if err != nil {
		fmt.Printf("\nWarning: cannot resolve history db path: %v\n", err)
		return
	}
	if err := config.EnsureHistoryDir(dbPath); err != nil {
		fmt.Printf("\nWarning: cannot create history directory: %v\n", err)
		return
	}

	hist, err := store.NewBoltHistory(dbPath)
	if err != nil {
		fmt.Printf("\nWarning: cannot open history db: %v\n", err)
		return
	}
	defer hist.Close()

	if err := hist.PutRun(rec); err != nil {
		fmt.Printf("\nWarning: failed to record run: %v\n", err)
	}
}
