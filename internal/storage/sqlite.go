// Package storage provides SQLite-based persistence for tower scores and
// cumulative per-mode statistics.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

// ScoreEntry is one finished game.
type ScoreEntry struct {
	ID        int64
	SessionID string
	Mode      string
	Score     int
	Lines     int
	BestCombo int
	CreatedAt time.Time
}

// ModeStats is the cumulative record for one mode.
type ModeStats struct {
	Mode         string
	GamesPlayed  int
	LinesCleared int
	BestCombo    int
	HighScore    int
	LastPlayed   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			score INTEGER NOT NULL,
			lines INTEGER NOT NULL DEFAULT 0,
			best_combo INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_mode ON scores(mode);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(mode, score DESC);

		CREATE TABLE IF NOT EXISTS stats (
			mode TEXT PRIMARY KEY,
			games_played INTEGER NOT NULL DEFAULT 0,
			lines_cleared INTEGER NOT NULL DEFAULT 0,
			best_combo INTEGER NOT NULL DEFAULT 0,
			high_score INTEGER NOT NULL DEFAULT 0,
			last_played DATETIME
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordGame stores a finished game and folds it into the mode's
// cumulative stats in one transaction. Returns the score row ID.
func (s *Store) RecordGame(e ScoreEntry) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO scores (session_id, mode, score, lines, best_combo)
		 VALUES (?, ?, ?, ?, ?)`,
		e.SessionID, e.Mode, e.Score, e.Lines, e.BestCombo,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO stats (mode, games_played, lines_cleared, best_combo, high_score, last_played)
		 VALUES (?, 1, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(mode) DO UPDATE SET
			games_played = games_played + 1,
			lines_cleared = lines_cleared + excluded.lines_cleared,
			best_combo = MAX(best_combo, excluded.best_combo),
			high_score = MAX(high_score, excluded.high_score),
			last_played = excluded.last_played`,
		e.Mode, e.Lines, e.BestCombo, e.Score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot update stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit game: %w", err)
	}
	return id, nil
}

// RaiseHighScore lifts the stored high score for a mode to score if it is
// higher.
func (s *Store) RaiseHighScore(mode string, score int) error {
	_, err := s.db.Exec(
		`INSERT INTO stats (mode, high_score) VALUES (?, ?)
		 ON CONFLICT(mode) DO UPDATE SET high_score = MAX(high_score, excluded.high_score)`,
		mode, score,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save high score: %w", err)
	}
	return nil
}

// TopScores retrieves the top N scores for the given mode.
// Results are ordered by score descending.
func (s *Store) TopScores(mode string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, mode, score, lines, best_combo, created_at
		 FROM scores
		 WHERE mode = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Mode, &e.Score, &e.Lines, &e.BestCombo, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score recorded for the given mode.
// Returns 0 if the mode has never been played.
func (s *Store) HighScore(mode string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		`SELECT MAX(high) FROM (
			SELECT MAX(score) AS high FROM scores WHERE mode = ?
			UNION ALL
			SELECT high_score FROM stats WHERE mode = ?
		)`,
		mode, mode,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// Stats returns the cumulative stats for a mode. A mode that has never been
// played yields zero values.
func (s *Store) Stats(mode string) (ModeStats, error) {
	st := ModeStats{Mode: mode}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT games_played, lines_cleared, best_combo, high_score, last_played
		 FROM stats WHERE mode = ?`,
		mode,
	).Scan(&st.GamesPlayed, &st.LinesCleared, &st.BestCombo, &st.HighScore, &lastPlayed)
	if errors.Is(err, sql.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}
	st.LastPlayed = parseTime(lastPlayed)
	return st, nil
}

// AllStats returns cumulative stats for every mode that has a record.
func (s *Store) AllStats() (map[string]ModeStats, error) {
	rows, err := s.db.Query(
		`SELECT mode, games_played, lines_cleared, best_combo, high_score, last_played FROM stats`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all stats: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ModeStats)
	for rows.Next() {
		var st ModeStats
		var lastPlayed any
		if err := rows.Scan(&st.Mode, &st.GamesPlayed, &st.LinesCleared, &st.BestCombo, &st.HighScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		out[st.Mode] = st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// ClearScores deletes all scores and stats for the given mode.
func (s *Store) ClearScores(mode string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE mode = ?", mode); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM stats WHERE mode = ?", mode); err != nil {
		return fmt.Errorf("storage: cannot clear stats: %w", err)
	}
	return nil
}

// parseTime handles the driver returning DATETIME as either time.Time or text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
