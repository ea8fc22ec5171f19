// Package audio voices engine sound events with short synthesized effects
// played through the system speaker.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// tone is a finite oscillator that can sound several frequencies at once.
type tone struct {
	freqs    []float64
	phases   []float64
	wave     Wave
	rate     beep.SampleRate
	total    int
	position int
	noise    *rand.Rand
}

// Tone returns a streamer of the given length sounding every frequency in
// freqs together. A noise tone ignores freqs.
func Tone(wave Wave, d time.Duration, rate beep.SampleRate, freqs ...float64) beep.Streamer {
	return &tone{
		freqs:  freqs,
		phases: make([]float64, len(freqs)),
		wave:   wave,
		rate:   rate,
		total:  rate.N(d),
		noise:  rand.New(rand.NewSource(1)),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.position >= t.total {
		return 0, false
	}
	for i := range samples {
		if t.position >= t.total {
			return i, true
		}
		var val float64
		if t.wave == WaveNoise {
			val = t.noise.Float64()*2 - 1
		} else if len(t.freqs) > 0 {
			for j, f := range t.freqs {
				val += sample(t.wave, t.phases[j])
				t.phases[j] += f / float64(t.rate)
				t.phases[j] -= math.Floor(t.phases[j])
			}
			val /= float64(len(t.freqs))
		}
		samples[i][0] = val
		samples[i][1] = val
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

func sample(w Wave, phase float64) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSaw:
		return 2 * (phase - 0.5)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// envelope fades a streamer in over attack and out over the final release.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// Envelope shapes s, whose length is d, with a linear attack and release.
func Envelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; e.release > 0 && remaining < e.release {
			vol = math.Max(0, float64(remaining)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// withVolume scales s linearly; zero or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// note is a shaped tone with a short click-free attack and release.
func note(wave Wave, d time.Duration, rate beep.SampleRate, freqs ...float64) beep.Streamer {
	return Envelope(Tone(wave, d, rate, freqs...), d, 5*time.Millisecond, d/3, rate)
}
