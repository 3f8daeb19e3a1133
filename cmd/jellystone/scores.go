package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jellystone/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the high-score table",
	Long: `Display the best recorded games.

Examples:
  jellystone scores
  jellystone scores --limit 25
  jellystone scores --db postgres://localhost/jellystone
  jellystone scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 0, "Number of scores to show (default: storage.top_scores)")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all recorded scores")
}

func runScores(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DSN)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()

	if flagScoresClear {
		if err := store.ClearScores(ctx); err != nil {
			return err
		}
		fmt.Println("All scores deleted.")
		return nil
	}

	limit := flagScoresLimit
	if limit <= 0 {
		limit = cfg.Storage.TopScores
	}

	scores, err := store.TopScores(ctx, limit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Println("High Scores - Jellystone")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'jellystone play' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-16s  %-6s  %-5s  %-6s  %s\n", "Rank", "Name", "Score", "Level", "Time", "Date")
	fmt.Printf("  %-4s  %-16s  %-6s  %-5s  %-6s  %s\n", "----", "----", "-----", "-----", "----", "----")

	for i, entry := range scores {
		fmt.Printf("  %-4d  %-16s  %-6d  %-5d  %-6s  %s\n",
			i+1,
			entry.Name,
			entry.Score,
			entry.Level,
			fmt.Sprintf("%d:%02d", entry.ElapsedSecs/60, entry.ElapsedSecs%60),
			entry.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		return errors.Join(errors.New("scores listed but stats failed"), err)
	}
	best, err := store.HighScore(ctx)
	if err != nil {
		return errors.Join(errors.New("scores listed but stats failed"), err)
	}
	fmt.Println()
	fmt.Printf("%d games played, best %d, average score %.1f, furthest level %d\n",
		stats.Games, best, stats.AvgScore, stats.BestLevel)
	return nil
}
