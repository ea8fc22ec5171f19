package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/towerfall/internal/config"
	"github.com/vovakirdan/towerfall/internal/games/tower"
	"github.com/vovakirdan/towerfall/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the given mode, or rising when none is named.

Controls:
  Left/Right, A/D  - Move (hold to auto-shift)
  Up/W/X           - Rotate
  Down/S           - Soft drop (hold)
  Space            - Hard drop
  C                - Hold piece
  P                - Pause
  R                - Restart (after game over)
  Esc              - Back (when paused or over)
  Q/Ctrl+C         - Quit

Difficulty options:
` + difficultyHelp() + `
Examples:
  towerfall play
  towerfall play classic --difficulty hard
  towerfall play calm --seed 42
  towerfall play --config ./my-tower.yaml --sound`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

// difficultyHelp describes the presets, reading ramp starts from config.
func difficultyHelp() string {
	pct := func(p config.DifficultyPreset) int {
		return int(math.Round(config.InitialLevelForPreset(p) * 100))
	}
	return fmt.Sprintf(`  easy   - Longer lock delay, ramp starts at %d%%
  normal - Ramp starts at %d%%
  hard   - Faster rise, ramp starts at %d%%
  fixed  - No ramp, the floor rises at a steady pace
`, pct(config.DifficultyEasy), pct(config.DifficultyNormal), pct(config.DifficultyHard))
}

func runPlay(cmd *cobra.Command, args []string) error {
	modeID := ""
	if len(args) > 0 {
		modeID = args[0]
	}
	mode, err := tower.LookupMode(modeID)
	if err != nil {
		if errors.Is(err, tower.ErrUnknownMode) {
			return fmt.Errorf("%w\nRun 'towerfall list' to see available modes", err)
		}
		return err
	}

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
		Mode:    mode,
		Runtime: runtimeConfig(),
		Store:   store,
		Logger:  logger,
	}
	if sound := newSound(logger); sound != nil {
		defer sound.Close()
		opts.Sound = sound
	}

	if _, err := tui.Run(opts); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}
