package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"debloat/internal/adapter/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent debloat runs",
	Long: `List recent runs recorded in the history database, newest first.

Examples:
  debloat history
  debloat history --limit 5`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	dbPath, err := cfg.HistoryDBPath()
	if err != nil {
		return fmt.Errorf("cannot resolve history db path: %w", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	hist, err := store.NewBoltHistory(dbPath)
	if err != nil {
		return err
	}
	defer hist.Close()

	records, err := hist.RecentRuns(historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	for _, rec := range records {
		fmt.Printf("%s  %s\n", rec.Timestamp.Format("2006-01-02 15:04:05"), rec.Path)
		fmt.Printf("  provider=%s model=%s  LOC %d -> %d (%.2f%%)  %dms\n",
			rec.Provider, rec.Model, rec.OriginalLOC, rec.NewLOC, rec.ReductionPct, rec.DurationMS)
		fmt.Printf("  backup: %s\n", rec.BackupPath)
	}

	return nil
}
