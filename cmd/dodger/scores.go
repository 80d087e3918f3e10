package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/space-dodger/internal/scores"
	"github.com/vovakirdan/space-dodger/internal/storage"
)

var flagAllRuns bool

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the high-score list",
	Long: `Display the top scores with the place each run was played.

With --all, every recorded run is listed (sqlite and history backends).

Examples:
  dodger scores
  dodger scores --all
  dodger scores --store table`,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagAllRuns, "all", false, "List every recorded run, not just the top scores")
}

func runScores(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog := newLogger("store", false)
	defer closeLog()

	store, closeStore, err := openStore(cfg, openPrefs(logger))
	if err != nil {
		return fmt.Errorf("opening scores: %w", err)
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var entries []scores.Entry
	title := "High Scores"
	if hist, ok := store.(scores.HistoryLoader); ok && flagAllRuns {
		title = "All Runs"
		entries, err = hist.History(ctx)
		entries = scores.TopN(entries, len(entries))
	} else {
		if flagAllRuns {
			logger.Warn("backend keeps only the top scores")
		}
		entries, err = store.Load(ctx)
	}
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Println(title)
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'dodger play --name <you>' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-20s  %-8s  %-6s  %s\n", "Rank", "Name", "Score", "Mode", "Location")
	fmt.Printf("  %-4s  %-20s  %-8s  %-6s  %s\n", "----", "----", "-----", "----", "--------")

	for i, e := range entries {
		fmt.Printf("  %-4d  %-20s  %-8d  %-6s  %s\n", i+1, e.Name, e.Score, e.Mode, scores.FormatLocation(e))
	}

	// SQLite keeps enough to summarize the whole log
	if db, ok := store.(*storage.Store); ok {
		stats, err := db.Stats(ctx)
		if err != nil {
			logger.Warn("could not compute stats", "err", err)
			return nil
		}
		fmt.Println()
		fmt.Printf("Runs: %d  Best: %d  Average: %.0f  Located: %d\n",
			stats.Runs, stats.HighScore, stats.AvgScore, stats.Located)
		if !stats.LastPlayed.IsZero() {
			fmt.Printf("Last played: %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
		}
	}
	return nil
}
