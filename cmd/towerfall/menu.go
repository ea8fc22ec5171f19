package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/towerfall/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a mode.
After a game ends, esc returns to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select mode
  Tab          - Scoreboard
  Q            - Quit

Examples:
  towerfall menu
  towerfall menu --fps 30
  towerfall menu --db ./scores.db`,
	RunE: runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) error {
	towerCfg, err := loadTowerConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	opts := tui.GameOptions{
		Context: cmd.Context(),
		Config:  towerCfg,
		Runtime: runtimeConfig(),
		Store:   store,
		Logger:  logger,
	}
	if sound := newSound(logger); sound != nil {
		defer sound.Close()
		opts.Sound = sound
	}

	// Menu loop
	lastMode := ""
	for {
		res, err := tui.RunMenu(store, opts.Runtime.ScreenW, opts.Runtime.ScreenH)
		if err != nil {
			return err
		}
		opts.Runtime.ScreenW, opts.Runtime.ScreenH = res.Width, res.Height

		if res.Quit {
			return nil
		}

		if res.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, lastMode, res.Width, res.Height)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return nil
		}

		opts.Mode = res.Mode
		lastMode = res.Mode.ID
		backToMenu, err := tui.Run(opts)
		if err != nil {
			return fmt.Errorf("error running game: %w", err)
		}
		if !backToMenu {
			return nil
		}
	}
}
