package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/towerfall/internal/games/tower"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreRecordAndTopScores(t *testing.T) {
	store := openTestStore(t)

	games := []ScoreEntry{
		{SessionID: "a", Mode: "rising", Score: 100, Lines: 2, BestCombo: 1},
		{SessionID: "b", Mode: "rising", Score: 50},
		{SessionID: "c", Mode: "rising", Score: 200, Lines: 5, BestCombo: 3},
		{SessionID: "d", Mode: "calm", Score: 500},
	}
	for _, g := range games {
		if _, err := store.RecordGame(g); err != nil {
			t.Fatalf("RecordGame() failed: %v", err)
		}
	}

	scores, err := store.TopScores("rising", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("len(TopScores) = %d, want 3", len(scores))
	}
	want := []int{200, 100, 50}
	for i, w := range want {
		if scores[i].Score != w {
			t.Errorf("scores[%d].Score = %d, want %d", i, scores[i].Score, w)
		}
	}
	if scores[0].SessionID != "c" || scores[0].Lines != 5 || scores[0].BestCombo != 3 {
		t.Errorf("top entry = %+v", scores[0])
	}

	limited, err := store.TopScores("rising", 2)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(TopScores limit 2) = %d, want 2", len(limited))
	}
}

func TestStoreStatsAccumulate(t *testing.T) {
	store := openTestStore(t)

	st, err := store.Stats("rising")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if st.GamesPlayed != 0 || st.HighScore != 0 {
		t.Errorf("unplayed mode stats = %+v, want zero", st)
	}

	store.RecordGame(ScoreEntry{SessionID: "a", Mode: "rising", Score: 300, Lines: 4, BestCombo: 2})
	store.RecordGame(ScoreEntry{SessionID: "b", Mode: "rising", Score: 100, Lines: 1, BestCombo: 5})

	st, err = store.Stats("rising")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if st.GamesPlayed != 2 {
		t.Errorf("GamesPlayed = %d, want 2", st.GamesPlayed)
	}
	if st.LinesCleared != 5 {
		t.Errorf("LinesCleared = %d, want 5", st.LinesCleared)
	}
	if st.BestCombo != 5 {
		t.Errorf("BestCombo = %d, want 5", st.BestCombo)
	}
	if st.HighScore != 300 {
		t.Errorf("HighScore = %d, want 300", st.HighScore)
	}

	all, err := store.AllStats()
	if err != nil {
		t.Fatalf("AllStats() failed: %v", err)
	}
	if len(all) != 1 || all["rising"].GamesPlayed != 2 {
		t.Errorf("AllStats() = %+v", all)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("rising")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("HighScore(empty) = %d, want 0", high)
	}

	store.RecordGame(ScoreEntry{SessionID: "a", Mode: "rising", Score: 300})
	if err := store.RaiseHighScore("rising", 200); err != nil {
		t.Fatalf("RaiseHighScore() failed: %v", err)
	}
	if high, _ = store.HighScore("rising"); high != 300 {
		t.Errorf("HighScore = %d, want 300; a lower value must not replace it", high)
	}

	if err := store.RaiseHighScore("rising", 900); err != nil {
		t.Fatalf("RaiseHighScore() failed: %v", err)
	}
	if high, _ = store.HighScore("rising"); high != 900 {
		t.Errorf("HighScore = %d, want 900", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)
	store.RecordGame(ScoreEntry{SessionID: "a", Mode: "rising", Score: 100})
	store.RecordGame(ScoreEntry{SessionID: "b", Mode: "calm", Score: 300})

	if err := store.ClearScores("rising"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("rising", 10); len(scores) != 0 {
		t.Errorf("len(rising scores) = %d after clear, want 0", len(scores))
	}
	if st, _ := store.Stats("rising"); st.GamesPlayed != 0 {
		t.Errorf("rising stats survived clear: %+v", st)
	}
	if scores, _ := store.TopScores("calm", 10); len(scores) != 1 {
		t.Error("calm scores should not be affected by clearing rising")
	}
}

func TestRecorderImplementsStatsSink(t *testing.T) {
	store := openTestStore(t)
	var sink tower.StatsSink = NewRecorder(store, "classic", nil)

	sink.PersistHighScore(450)
	sink.PersistStats(tower.Stats{SessionID: "s1", GamesPlayed: 1, LinesCleared: 3, BestCombo: 2, Score: 450})

	st, err := store.Stats("classic")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if st.GamesPlayed != 1 || st.LinesCleared != 3 || st.HighScore != 450 {
		t.Errorf("Stats = %+v", st)
	}
	scores, _ := store.TopScores("classic", 1)
	if len(scores) != 1 || scores[0].SessionID != "s1" {
		t.Errorf("TopScores = %+v, want the recorded session", scores)
	}
}

func TestRecorderNilStoreIsSilent(t *testing.T) {
	r := NewRecorder(nil, "rising", nil)
	r.PersistHighScore(10)
	r.PersistStats(tower.Stats{Score: 10})
}
