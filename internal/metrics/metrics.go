// Package metrics exposes Prometheus counters for hosted tower sessions.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/towerfall/internal/games/tower"
)

const namespace = "towerfall"

// Metrics holds the collectors for one server. Each server owns its own
// registry so tests and multiple servers in one process do not collide.
type Metrics struct {
	registry *prometheus.Registry

	mu     sync.Mutex
	combos map[string]int

	activeSessions prometheus.Gauge
	games          *prometheus.CounterVec
	lines          *prometheus.CounterVec
	rises          *prometheus.CounterVec
	locks          *prometheus.CounterVec
	highScores     *prometheus.CounterVec
	bestCombo      *prometheus.GaugeVec
}

// New creates and registers the tower collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		combos:   make(map[string]int),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently connected.",
		}),
		games: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_total",
			Help:      "Games that reached game over.",
		}, []string{"mode"}),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_cleared_total",
			Help:      "Rows cleared across all games.",
		}, []string{"mode"}),
		rises: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rises_total",
			Help:      "Rows pushed up from the bottom.",
		}, []string{"mode"}),
		locks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pieces_locked_total",
			Help:      "Pieces locked into the board.",
		}, []string{"mode"}),
		highScores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "high_scores_total",
			Help:      "Games that beat the stored high score.",
		}, []string{"mode"}),
		bestCombo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_combo",
			Help:      "Longest combo seen since start.",
		}, []string{"mode"}),
	}
	m.registry.MustRegister(
		m.activeSessions, m.games, m.lines, m.rises, m.locks, m.highScores, m.bestCombo,
		collectors.NewGoCollector(),
	)
	return m
}

// SessionStarted marks a connected session.
func (m *Metrics) SessionStarted() { m.activeSessions.Inc() }

// SessionEnded marks a disconnected session.
func (m *Metrics) SessionEnded() { m.activeSessions.Dec() }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Observer returns a collaborator that counts one session's events under
// mode. It satisfies both tower.Feedback and tower.StatsSink.
func (m *Metrics) Observer(mode string) *Observer {
	return &Observer{m: m, mode: mode}
}

// Observer feeds session notifications into the collectors.
type Observer struct {
	m    *Metrics
	mode string
}

var (
	_ tower.Feedback  = (*Observer)(nil)
	_ tower.StatsSink = (*Observer)(nil)
)

// PlaySound implements tower.Feedback.
func (o *Observer) PlaySound(s tower.Sound) {
	switch s.Event {
	case tower.SoundLand:
		o.m.locks.WithLabelValues(o.mode).Inc()
	case tower.SoundClear:
		o.m.lines.WithLabelValues(o.mode).Add(float64(s.Lines))
	case tower.SoundRise:
		o.m.rises.WithLabelValues(o.mode).Inc()
	}
}

// Haptic implements tower.Feedback.
func (o *Observer) Haptic(tower.HapticClass) {}

// PersistHighScore implements tower.StatsSink.
func (o *Observer) PersistHighScore(int) {
	o.m.highScores.WithLabelValues(o.mode).Inc()
}

// PersistStats implements tower.StatsSink.
func (o *Observer) PersistStats(st tower.Stats) {
	mode := st.Mode
	if mode == "" {
		mode = o.mode
	}
	o.m.games.WithLabelValues(mode).Add(float64(st.GamesPlayed))

	o.m.raiseBestCombo(mode, st.BestCombo)
}

func (m *Metrics) raiseBestCombo(mode string, combo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if combo <= m.combos[mode] {
		return
	}
	m.combos[mode] = combo
	m.bestCombo.WithLabelValues(mode).Set(float64(combo))
}
