package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/tower.yaml
var defaultTowerYAML []byte

// DefaultTowerConfig returns the default tower configuration.
func DefaultTowerConfig() TowerConfig {
	return TowerConfig{
		Board: BoardConfig{
			PlayableWidth:   10,
			DecorativeWidth: 6,
			Height:          24,
			SpawnMargin:     0,
		},
		Tower: TowerGenConfig{
			BaseHeight:       12,
			WedgeDepth:       4,
			WedgeBottomWidth: 2,
			WedgeTopWidth:    6,
			Gap: GapWeights{
				Up:         0.5,
				UpLeft:     0.15,
				UpRight:    0.15,
				Left:       0.1,
				Right:      0.1,
				CenterBias: 0.3,
				EdgeMargin: 2,
			},
		},
		Rise: RiseConfig{
			Variant:         RiseGap,
			Interval:        12 * time.Second,
			FillProbability: 0.85,
		},
		Timing: TimingConfig{
			Gravity:      time.Second,
			DAS:          170 * time.Millisecond,
			ARR:          50 * time.Millisecond,
			SoftDrop:     50 * time.Millisecond,
			LockDelay:    500 * time.Millisecond,
			LockResetCap: 15,
			InputPoll:    16 * time.Millisecond,
		},
		Scoring: ScoringConfig{
			LineScores:       []int{100, 300, 500, 800},
			ExtraLineScore:   100,
			ComboMultipliers: []float64{1.0, 1.5, 2.0, 2.5, 3.0},
			SoftDropPoints:   1,
			HardDropPoints:   2,
		},
		PreviewCount: 3,
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 10000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 2.0,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultTowerYAML
}
