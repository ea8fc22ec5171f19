package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/towerfall/internal/games/tower"
	"github.com/vovakirdan/towerfall/internal/storage"
)

var flagClear bool

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores for a mode",
	Long: `Display the top 10 scores and lifetime stats for the given mode,
or rising when none is named.

Examples:
  towerfall scores
  towerfall scores calm
  towerfall scores classic --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores and stats for the mode")
}

func runScores(_ *cobra.Command, args []string) error {
	modeID := ""
	if len(args) > 0 {
		modeID = args[0]
	}
	mode, err := tower.LookupMode(modeID)
	if err != nil {
		return fmt.Errorf("%w\nRun 'towerfall list' to see available modes", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(mode.ID); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s.\n", mode.Title)
		return nil
	}

	scores, err := store.TopScores(mode.ID, 10)
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", mode.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'towerfall play %s' to set the first high score!\n", mode.ID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-6s  %-6s  %s\n", "Rank", "Score", "Lines", "Combo", "Date")
	fmt.Printf("  %-4s  %-10s  %-6s  %-6s  %s\n", "----", "-----", "-----", "-----", "----")
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %-6d  %-6d  %s\n", i+1, entry.Score, entry.Lines, entry.BestCombo, dateStr)
	}

	fmt.Println()
	st, err := store.Stats(mode.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load stats: %v\n", err)
		return nil
	}
	fmt.Printf("Best: %d\n", st.HighScore)
	fmt.Printf("Games: %d  Lines: %d  Best combo: %d\n", st.GamesPlayed, st.LinesCleared, st.BestCombo)
	if !st.LastPlayed.IsZero() {
		fmt.Printf("Last played: %s\n", st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
