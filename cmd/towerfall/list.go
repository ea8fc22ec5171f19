package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/towerfall/internal/games/tower"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all modes",
	Long:  `Shows every game mode with a short description.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	modes := tower.Modes()

	fmt.Println("Available modes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, m := range modes {
		maxIDLen = max(maxIDLen, len(m.ID)+1)
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----------")
	for _, m := range modes {
		id := m.ID
		if id == tower.DefaultModeID {
			id += "*"
		}
		fmt.Printf("  %-*s  %s\n", maxIDLen, id, m.Description)
	}

	fmt.Println()
	fmt.Println("* default. Run 'towerfall play <id>' to play a mode.")
}
