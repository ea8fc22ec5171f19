// towerfall is a falling-block puzzle played on a rising tower, in the
// terminal or over SSH.
//
// Usage:
//
//	towerfall list              - List available modes
//	towerfall play [mode]       - Play a mode (default: rising)
//	towerfall menu              - Pick modes interactively
//	towerfall serve             - Start SSH server for remote play
//	towerfall scores [mode]     - Show high scores and stats
//
// Global flags:
//
//	--fps <rate>          - Redraw rate (default: 60)
//	--seed <value>        - RNG seed for reproducible games
//	--db <path>           - Database path (default: ~/.towerfall/scores.db)
//	--config <path>       - Custom tower.yaml
//	--difficulty <name>   - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
//	--sound               - Play synthesized sound effects
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/towerfall/internal/audio"
	"github.com/vovakirdan/towerfall/internal/config"
	"github.com/vovakirdan/towerfall/internal/core"
	"github.com/vovakirdan/towerfall/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagSound      bool
	flagVolume     float64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "towerfall",
	Short: "Towerfall - stack falling pieces on a rising tower",
	Long: `Towerfall is a falling-block puzzle. Pieces drop onto a carved tower
whose floor keeps rising; clear rows before the stack reaches the top.

Available commands:
  list     - Show all modes
  play     - Play a mode directly
  menu     - Interactive mode picker
  serve    - Start SSH server for remote play
  scores   - View high scores and stats

Examples:
  towerfall play
  towerfall play calm --sound
  towerfall menu --difficulty hard
  towerfall serve --ssh :2222 --http :9090
  towerfall scores rising`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Redraw rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.towerfall/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tower config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagSound, "sound", false, "Play sound effects")
	rootCmd.PersistentFlags().Float64Var(&flagVolume, "volume", 0.5, "Sound volume from 0 to 1")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// newLogger builds the process logger. Interactive games own the terminal,
// so they log to ~/.towerfall/towerfall.log instead of stderr.
func newLogger(interactive bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if interactive {
		w = io.Discard
		if home, homeErr := os.UserHomeDir(); homeErr == nil {
			dir := filepath.Join(home, ".towerfall")
			if mkErr := os.MkdirAll(dir, 0o755); mkErr == nil {
				f, openErr := os.OpenFile(filepath.Join(dir, "towerfall.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if openErr == nil {
					w = f
					closeFn = func() { f.Close() }
				}
			}
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "towerfall",
		Level:           level,
	})
	return logger, closeFn, nil
}

// loadTowerConfig reads the tower config and applies --difficulty.
func loadTowerConfig() (config.TowerConfig, error) {
	cfg, err := config.LoadTower(flagConfig)
	if err != nil {
		return cfg, err
	}
	switch p := config.DifficultyPreset(flagDifficulty); p {
	case "", config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed:
		config.ApplyTowerPreset(&cfg, p)
	default:
		return cfg, fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
	}
	return cfg, nil
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the scores database. Games still run without one.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// newSound starts the audio player when --sound is set. It returns nil when
// sound is off or the device could not be opened.
func newSound(logger *log.Logger) *audio.Player {
	if !flagSound {
		return nil
	}
	p := audio.NewPlayer(flagVolume, logger)
	if err := p.Init(); err != nil {
		logger.Warn("sound disabled", "err", err)
		return nil
	}
	return p
}
