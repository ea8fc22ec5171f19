package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/towerfall/internal/metrics"
	"github.com/vovakirdan/towerfall/internal/storage"
)

func newTestServer(t *testing.T, withStore bool) (*Server, *storage.Store) {
	t.Helper()
	var store *storage.Store
	if withStore {
		var err error
		store, err = storage.Open(filepath.Join(t.TempDir(), "scores.db"))
		if err != nil {
			t.Fatalf("storage.Open() failed: %v", err)
		}
		t.Cleanup(func() { store.Close() })
	}
	return New(":0", store, metrics.New(), log.New(io.Discard)), store
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := get(t, s, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["storage"] != false {
		t.Errorf("body = %v", body)
	}
}

func TestMetricsRoute(t *testing.T) {
	s, _ := newTestServer(t, false)
	s.metrics.SessionStarted()

	rec := get(t, s, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "towerfall_active_sessions 1") {
		t.Error("metrics body missing active sessions")
	}
}

func TestMetricsRouteAbsentWithoutMetrics(t *testing.T) {
	s := New(":0", nil, nil, log.New(io.Discard))
	if rec := get(t, s, "/metrics"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestModes(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := get(t, s, "/api/modes")

	var modes []modeJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &modes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(modes) != 3 {
		t.Fatalf("len(modes) = %d, want 3", len(modes))
	}
	if modes[0].ID != "calm" || modes[2].ID != "rising" || !modes[2].Ramp {
		t.Errorf("modes = %+v", modes)
	}
}

func TestScores(t *testing.T) {
	s, store := newTestServer(t, true)
	for i, score := range []int{120, 900, 450} {
		store.RecordGame(storage.ScoreEntry{
			SessionID: string(rune('a' + i)),
			Mode:      "rising",
			Score:     score,
			Lines:     i,
		})
	}

	rec := get(t, s, "/api/scores/rising?limit=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Mode   string      `json:"mode"`
		Scores []scoreJSON `json:"scores"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Mode != "rising" || len(body.Scores) != 2 {
		t.Fatalf("body = %+v", body)
	}
	if body.Scores[0].Score != 900 || body.Scores[0].Rank != 1 || body.Scores[1].Score != 450 {
		t.Errorf("scores = %+v", body.Scores)
	}
}

func TestScoresErrors(t *testing.T) {
	s, _ := newTestServer(t, true)
	tests := []struct {
		path string
		want int
	}{
		{"/api/scores/nope", http.StatusNotFound},
		{"/api/scores/rising?limit=0", http.StatusBadRequest},
		{"/api/scores/rising?limit=x", http.StatusBadRequest},
		{"/api/stats/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		if rec := get(t, s, tt.path); rec.Code != tt.want {
			t.Errorf("GET %s status = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}

func TestScoresWithoutStore(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := get(t, s, "/api/scores/calm")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"scores":[]`) {
		t.Errorf("body = %s, want an empty list", rec.Body.String())
	}
}

func TestStats(t *testing.T) {
	s, store := newTestServer(t, true)
	store.RecordGame(storage.ScoreEntry{SessionID: "a", Mode: "classic", Score: 300, Lines: 4, BestCombo: 2})
	store.RecordGame(storage.ScoreEntry{SessionID: "b", Mode: "classic", Score: 100, Lines: 1, BestCombo: 3})

	rec := get(t, s, "/api/stats/classic")
	var st statsJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.GamesPlayed != 2 || st.LinesCleared != 5 || st.BestCombo != 3 || st.HighScore != 300 {
		t.Errorf("stats = %+v", st)
	}
	if st.LastPlayed == nil {
		t.Error("last_played missing after games were recorded")
	}
}
