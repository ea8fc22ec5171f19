package tower

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vovakirdan/towerfall/internal/config"
)

// ErrUnknownMode is returned by LookupMode for ids that are not registered.
var ErrUnknownMode = errors.New("unknown mode")

// DefaultModeID is the mode used when none is requested.
const DefaultModeID = "rising"

// Mode is a named rule set layered over the loaded configuration.
type Mode struct {
	ID          string
	Title       string
	Description string
	Rise        config.RiseVariant
	Ramp        bool // Rise cadence follows the score-driven difficulty ramp
}

var modes = map[string]Mode{
	"rising": {
		ID:          "rising",
		Title:       "Rising",
		Description: "The floor rises along the gap and speeds up with your score",
		Rise:        config.RiseGap,
		Ramp:        true,
	},
	"classic": {
		ID:          "classic",
		Title:       "Classic",
		Description: "Random garbage rows push up at a steady pace",
		Rise:        config.RiseSparse,
	},
	"calm": {
		ID:          "calm",
		Title:       "Calm",
		Description: "No rising floor, just the tower",
		Rise:        config.RiseOff,
	},
}

// Modes returns all modes sorted by id.
func Modes() []Mode {
	out := make([]Mode, 0, len(modes))
	for _, m := range modes {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// LookupMode returns the mode with the given id. An empty id selects the
// default mode.
func LookupMode(id string) (Mode, error) {
	if id == "" {
		id = DefaultModeID
	}
	m, ok := modes[id]
	if !ok {
		return Mode{}, fmt.Errorf("%w: %q", ErrUnknownMode, id)
	}
	return m, nil
}

// Apply writes the mode's rules into cfg.
func (m Mode) Apply(cfg *config.TowerConfig) {
	if m.Rise != "" {
		cfg.Rise.Variant = m.Rise
	}
	if !m.Ramp {
		cfg.Difficulty.Enabled = false
	}
}
