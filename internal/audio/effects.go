package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/towerfall/internal/games/tower"
)

// Pitches in Hz.
const (
	noteC4 = 261.63
	noteE4 = 329.63
	noteG4 = 392.00
	noteC5 = 523.25
	noteE5 = 659.25
	noteG5 = 783.99
	noteC6 = 1046.50
	noteA2 = 110.00
)

// clearChords are the triads voiced for one to four cleared rows.
var clearChords = [][]float64{
	{noteC4, noteE4},
	{noteC4, noteE4, noteG4},
	{noteC4, noteE4, noteG4, noteC5},
	{noteC5, noteE5, noteG5, noteC6},
}

// Effect builds the streamer that voices s. It is always finite.
func Effect(s tower.Sound, rate beep.SampleRate) beep.Streamer {
	switch s.Event {
	case tower.SoundMove:
		return note(WaveSquare, 20*time.Millisecond, rate, 880)
	case tower.SoundRotate:
		return note(WaveSquare, 30*time.Millisecond, rate, 1175)
	case tower.SoundHold:
		return beep.Seq(
			note(WaveSine, 40*time.Millisecond, rate, noteE5),
			note(WaveSine, 40*time.Millisecond, rate, noteC5),
		)
	case tower.SoundLand:
		return beep.Seq(
			note(WaveNoise, 15*time.Millisecond, rate),
			note(WaveSine, 60*time.Millisecond, rate, noteA2),
		)
	case tower.SoundClear:
		return note(WaveSine, 180*time.Millisecond, rate, clearChord(s.Lines)...)
	case tower.SoundCombo:
		return comboArpeggio(s.Combo, rate)
	case tower.SoundRise:
		return note(WaveSaw, 120*time.Millisecond, rate, 82.41, 87.31)
	case tower.SoundGameOver:
		return beep.Seq(
			note(WaveSaw, 180*time.Millisecond, rate, noteG4),
			note(WaveSaw, 180*time.Millisecond, rate, noteE4),
			note(WaveSaw, 360*time.Millisecond, rate, noteC4),
		)
	}
	return Tone(WaveSine, 0, rate)
}

func clearChord(lines int) []float64 {
	if lines < 1 {
		lines = 1
	}
	if lines > len(clearChords) {
		lines = len(clearChords)
	}
	return clearChords[lines-1]
}

// comboArpeggio climbs a semitone per combo step, capped at one octave.
func comboArpeggio(combo int, rate beep.SampleRate) beep.Streamer {
	steps := combo
	if steps < 1 {
		steps = 1
	}
	if steps > 12 {
		steps = 12
	}
	root := noteC5 * math.Pow(2, float64(steps-1)/12)
	return beep.Seq(
		note(WaveSquare, 50*time.Millisecond, rate, root),
		note(WaveSquare, 50*time.Millisecond, rate, root*1.25),
		note(WaveSquare, 80*time.Millisecond, rate, root*1.5),
	)
}
