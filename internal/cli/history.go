package cli

import (
	"fmt"
	"time"

	"github.com/fialovy/redditpersona/internal/config"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past generation runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("open cache db: %w", err)
	}
	defer db.Close()

	runs, err := db.RecentRuns(historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs yet. Generate a definition first.")
		return nil
	}

	for _, r := range runs {
		when := time.UnixMilli(r.CreatedAt).Format("2006-01-02 15:04")
		suffix := ""
		if r.Truncated {
			suffix = " (truncated)"
		}
		fmt.Printf("%s  u/%-20s %5d chars  %3d exchanges%s\n", when, r.Username, r.Length, r.Included, suffix)
	}
	return nil
}
