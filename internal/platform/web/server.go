// Package web serves the read-only HTTP side of a towerfall server:
// Prometheus metrics, a health check and the leaderboard as JSON.
package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/towerfall/internal/games/tower"
	"github.com/vovakirdan/towerfall/internal/metrics"
	"github.com/vovakirdan/towerfall/internal/storage"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Server is the HTTP endpoint next to the SSH server.
type Server struct {
	engine  *gin.Engine
	http    *http.Server
	store   *storage.Store
	metrics *metrics.Metrics
	log     *log.Logger
}

// New builds the router. A nil store serves empty leaderboards; nil
// metrics leave /metrics unregistered.
func New(addr string, store *storage.Store, m *metrics.Metrics, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:  gin.New(),
		store:   store,
		metrics: m,
		log:     logger,
	}
	s.engine.Use(gin.Recovery(), s.requestLogger())

	s.engine.GET("/healthz", s.health)
	if m != nil {
		s.engine.GET("/metrics", gin.WrapH(m.Handler()))
	}
	api := s.engine.Group("/api")
	api.GET("/modes", s.modes)
	api.GET("/scores/:mode", s.scores)
	api.GET("/stats/:mode", s.stats)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe blocks until the server stops. A clean shutdown is not
// an error.
func (s *Server) ListenAndServe() error {
	s.log.Info("starting HTTP server", "address", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": s.store != nil})
}

type modeJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Rise        string `json:"rise"`
	Ramp        bool   `json:"ramp"`
}

func (s *Server) modes(c *gin.Context) {
	modes := tower.Modes()
	out := make([]modeJSON, 0, len(modes))
	for _, m := range modes {
		out = append(out, modeJSON{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Rise:        string(m.Rise),
			Ramp:        m.Ramp,
		})
	}
	c.JSON(http.StatusOK, out)
}

type scoreJSON struct {
	Rank      int       `json:"rank"`
	Session   string    `json:"session"`
	Score     int       `json:"score"`
	Lines     int       `json:"lines"`
	BestCombo int       `json:"best_combo"`
	PlayedAt  time.Time `json:"played_at"`
}

func (s *Server) scores(c *gin.Context) {
	mode, ok := s.lookupMode(c)
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	limit = min(limit, maxLimit)

	out := []scoreJSON{}
	if s.store != nil {
		entries, err := s.store.TopScores(mode.ID, limit)
		if err != nil {
			s.log.Error("leaderboard query failed", "mode", mode.ID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
			return
		}
		for i, e := range entries {
			out = append(out, scoreJSON{
				Rank:      i + 1,
				Session:   e.SessionID,
				Score:     e.Score,
				Lines:     e.Lines,
				BestCombo: e.BestCombo,
				PlayedAt:  e.CreatedAt,
			})
		}
	}
	c.JSON(http.StatusOK, gin.H{"mode": mode.ID, "scores": out})
}

type statsJSON struct {
	Mode         string     `json:"mode"`
	GamesPlayed  int        `json:"games_played"`
	LinesCleared int        `json:"lines_cleared"`
	BestCombo    int        `json:"best_combo"`
	HighScore    int        `json:"high_score"`
	LastPlayed   *time.Time `json:"last_played,omitempty"`
}

func (s *Server) stats(c *gin.Context) {
	mode, ok := s.lookupMode(c)
	if !ok {
		return
	}
	st := storage.ModeStats{Mode: mode.ID}
	if s.store != nil {
		var err error
		if st, err = s.store.Stats(mode.ID); err != nil {
			s.log.Error("stats query failed", "mode", mode.ID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
			return
		}
	}

	out := statsJSON{
		Mode:         st.Mode,
		GamesPlayed:  st.GamesPlayed,
		LinesCleared: st.LinesCleared,
		BestCombo:    st.BestCombo,
		HighScore:    st.HighScore,
	}
	if !st.LastPlayed.IsZero() {
		out.LastPlayed = &st.LastPlayed
	}
	c.JSON(http.StatusOK, out)
}

// lookupMode resolves the :mode parameter, answering 404 when unknown.
func (s *Server) lookupMode(c *gin.Context) (tower.Mode, bool) {
	mode, err := tower.LookupMode(c.Param("mode"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return tower.Mode{}, false
	}
	return mode, true
}
