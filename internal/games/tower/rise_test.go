package tower

import (
	"testing"
	"time"

	"github.com/vovakirdan/towerfall/internal/config"
)

func TestRiseControllerCadence(t *testing.T) {
	cfg := config.DefaultTowerConfig()
	t0 := time.Unix(0, 0)

	rc := NewRiseController(10*time.Second, config.NewDifficultyManager(cfg.Difficulty), true)
	rc.Start(t0)

	if rc.Step(t0.Add(9*time.Second), 0) {
		t.Fatal("rose before the interval")
	}
	if !rc.Step(t0.Add(11*time.Second), 0) {
		t.Fatal("did not rise after the interval")
	}

	// At 2500 points the cadence is 1.5x: 10s of progress in 6.67s.
	rc.Start(t0)
	if rc.Step(t0.Add(6*time.Second), 2500) {
		t.Error("rose too early at 1.5x")
	}
	if !rc.Step(t0.Add(7*time.Second), 2500) {
		t.Error("did not rise at 1.5x")
	}
}

func TestRiseControllerNoBacklog(t *testing.T) {
	t0 := time.Unix(0, 0)
	rc := NewRiseController(time.Second, nil, true)
	rc.Start(t0)

	if !rc.Step(t0.Add(5*time.Second), 0) {
		t.Fatal("expected a rise after a long gap")
	}
	if rc.Step(t0.Add(5*time.Second+10*time.Millisecond), 0) {
		t.Error("backlog should be discarded, not replayed")
	}
}

func TestRiseControllerRebase(t *testing.T) {
	t0 := time.Unix(0, 0)
	rc := NewRiseController(time.Second, nil, true)
	rc.Start(t0)
	rc.Step(t0.Add(600*time.Millisecond), 0)

	// Paused for a minute.
	rc.Rebase(t0.Add(time.Minute))
	if rc.Step(t0.Add(time.Minute+300*time.Millisecond), 0) {
		t.Error("paused time should not count toward the rise")
	}
	if !rc.Step(t0.Add(time.Minute+500*time.Millisecond), 0) {
		t.Error("progress from before the pause should be kept")
	}
}

func TestRiseControllerDisabled(t *testing.T) {
	t0 := time.Unix(0, 0)
	rc := NewRiseController(time.Second, nil, false)
	rc.Start(t0)
	if rc.Step(t0.Add(time.Hour), 0) {
		t.Error("disabled controller should never rise")
	}
}
