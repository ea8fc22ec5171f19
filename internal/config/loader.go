package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadTower loads the tower configuration. Files are decoded over the
// defaults, so a partial file only overrides the keys it names.
// Search order: customPath -> ~/.towerfall/configs/tower.yaml -> ./configs/tower.yaml -> embedded default
func LoadTower(customPath string) (TowerConfig, error) {
	cfg := DefaultTowerConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("tower.yaml"); userCfgPath != "" {
		if parsed, ok := tryLoad(userCfgPath); ok {
			return parsed, nil
		}
	}

	// Try local configs directory
	if parsed, ok := tryLoad(filepath.Join("configs", "tower.yaml")); ok {
		return parsed, nil
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultTowerYAML, &cfg); err != nil {
		return DefaultTowerConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryLoad reads an optional config file; unreadable or invalid files are skipped.
func tryLoad(path string) (TowerConfig, bool) {
	cfg := DefaultTowerConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".towerfall", "configs", filename)
}

// ApplyTowerPreset modifies the config based on a difficulty preset.
// An empty preset leaves the config untouched.
func ApplyTowerPreset(cfg *TowerConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.Timing.LockDelay = cfg.Timing.LockDelay * 3 / 2
	case DifficultyHard:
		cfg.Rise.Interval = cfg.Rise.Interval * 3 / 4
	}
}

// Validate reports configuration values the engine cannot run with.
func (c TowerConfig) Validate() error {
	var errs []error

	b := c.Board
	if b.PlayableWidth < 4 {
		errs = append(errs, fmt.Errorf("board.playable_width must be at least 4, got %d", b.PlayableWidth))
	}
	if b.DecorativeWidth < 0 {
		errs = append(errs, fmt.Errorf("board.decorative_width must not be negative, got %d", b.DecorativeWidth))
	}
	if b.Height < 4 {
		errs = append(errs, fmt.Errorf("board.height must be at least 4, got %d", b.Height))
	}
	if b.SpawnMargin < 0 || b.SpawnMargin >= b.Height {
		errs = append(errs, fmt.Errorf("board.spawn_margin out of range: %d", b.SpawnMargin))
	}

	t := c.Tower
	if t.BaseHeight < 0 || t.BaseHeight >= b.Height {
		errs = append(errs, fmt.Errorf("tower.base_height must be in [0, %d), got %d", b.Height, t.BaseHeight))
	}
	if t.WedgeDepth < 0 || t.WedgeDepth > t.BaseHeight {
		errs = append(errs, fmt.Errorf("tower.wedge_depth must be in [0, base_height], got %d", t.WedgeDepth))
	}
	if t.WedgeBottomWidth > b.PlayableWidth || t.WedgeTopWidth > b.PlayableWidth {
		errs = append(errs, errors.New("tower wedge is wider than the play width"))
	}
	g := t.Gap
	if g.Up+g.UpLeft+g.UpRight+g.Left+g.Right <= 0 {
		errs = append(errs, errors.New("tower.gap weights must sum to a positive value"))
	}

	switch c.Rise.Variant {
	case RiseGap, RiseSparse, RiseOff:
	default:
		errs = append(errs, fmt.Errorf("unknown rise.variant %q", c.Rise.Variant))
	}
	if c.Rise.Variant != RiseOff && c.Rise.Interval <= 0 {
		errs = append(errs, errors.New("rise.interval must be positive"))
	}

	tm := c.Timing
	if tm.Gravity <= 0 || tm.InputPoll <= 0 || tm.ARR <= 0 || tm.SoftDrop <= 0 {
		errs = append(errs, errors.New("timing intervals must be positive"))
	}
	if tm.LockResetCap <= 0 {
		errs = append(errs, errors.New("timing.lock_reset_cap must be positive"))
	}

	if len(c.Scoring.LineScores) == 0 {
		errs = append(errs, errors.New("scoring.line_scores must not be empty"))
	}
	if len(c.Scoring.ComboMultipliers) == 0 {
		errs = append(errs, errors.New("scoring.combo_multipliers must not be empty"))
	}

	return errors.Join(errs...)
}
