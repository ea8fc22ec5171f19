// Package config provides YAML-based game configuration loading and
// difficulty management for towerfall.
package config

import "time"

// TowerConfig contains all configuration for the tower game engine.
type TowerConfig struct {
	Board        BoardConfig      `yaml:"board"`
	Tower        TowerGenConfig   `yaml:"tower"`
	Rise         RiseConfig       `yaml:"rise"`
	Timing       TimingConfig     `yaml:"timing"`
	Scoring      ScoringConfig    `yaml:"scoring"`
	PreviewCount int              `yaml:"preview_count"`
	Difficulty   DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the cell matrix dimensions.
type BoardConfig struct {
	PlayableWidth   int `yaml:"playable_width"`
	DecorativeWidth int `yaml:"decorative_width"` // Cosmetic fringe, no gameplay rules
	Height          int `yaml:"height"`
	SpawnMargin     int `yaml:"spawn_margin"` // Rows below the top row where pieces spawn
}

// Circumference returns the total column count of the board.
func (b BoardConfig) Circumference() int {
	return b.PlayableWidth + b.DecorativeWidth
}

// TowerGenConfig defines the initial tower carving.
type TowerGenConfig struct {
	BaseHeight       int        `yaml:"base_height"`
	WedgeDepth       int        `yaml:"wedge_depth"`
	WedgeBottomWidth int        `yaml:"wedge_bottom_width"`
	WedgeTopWidth    int        `yaml:"wedge_top_width"`
	Gap              GapWeights `yaml:"gap"`
}

// GapWeights is the step distribution of the wandering gap tracer.
type GapWeights struct {
	Up         float64 `yaml:"up"`
	UpLeft     float64 `yaml:"up_left"`
	UpRight    float64 `yaml:"up_right"`
	Left       float64 `yaml:"left"`
	Right      float64 `yaml:"right"`
	CenterBias float64 `yaml:"center_bias"` // Probability of steering toward the midline; 0 disables
	EdgeMargin int     `yaml:"edge_margin"` // Columns from an edge where the bias applies
}

// RiseVariant selects how the rising floor builds new rows.
type RiseVariant string

const (
	RiseGap    RiseVariant = "gap"    // Continue the wandering gap
	RiseSparse RiseVariant = "sparse" // Random fill at FillProbability
	RiseOff    RiseVariant = "off"    // Floor never rises
)

// RiseConfig defines the rising floor cadence.
type RiseConfig struct {
	Variant         RiseVariant   `yaml:"variant"`
	Interval        time.Duration `yaml:"interval"`
	FillProbability float64       `yaml:"fill_probability"`
}

// TimingConfig defines gravity, input and lock timings.
type TimingConfig struct {
	Gravity      time.Duration `yaml:"gravity"`
	DAS          time.Duration `yaml:"das"`
	ARR          time.Duration `yaml:"arr"`
	SoftDrop     time.Duration `yaml:"soft_drop"`
	LockDelay    time.Duration `yaml:"lock_delay"`
	LockResetCap int           `yaml:"lock_reset_cap"`
	InputPoll    time.Duration `yaml:"input_poll"`
}

// ScoringConfig defines the line-clear and drop reward tables.
type ScoringConfig struct {
	LineScores       []int     `yaml:"line_scores"`       // Index 0 = single
	ExtraLineScore   int       `yaml:"extra_line_score"`  // Per line beyond the table
	ComboMultipliers []float64 `yaml:"combo_multipliers"` // Index = combo before increment
	SoftDropPoints   int       `yaml:"soft_drop_points"`
	HardDropPoints   int       `yaml:"hard_drop_points"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.1
	case DifficultyHard:
		return 0.4
	default:
		return 0.0
	}
}
