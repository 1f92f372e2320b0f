// Package storage persists games and score history. The SQLite store uses
// the pure-Go modernc.org/sqlite driver to avoid CGO dependencies; the file
// store keeps a single game as JSON.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a finished game in the score history.
type ScoreEntry struct {
	ID        int64
	Slot      string
	Score     int
	Name      string
	MaxTile   int
	Moves     int
	CreatedAt time.Time
}

// SaveInfo describes a stored game without decoding it.
type SaveInfo struct {
	Slot      string
	Bytes     int
	UpdatedAt time.Time
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := expandHome(dbPath)
	if err != nil {
		return nil, err
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
		CREATE TABLE IF NOT EXISTS saves (
			slot TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slot TEXT NOT NULL,
			score INTEGER NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			max_tile INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC);
		CREATE INDEX IF NOT EXISTS idx_scores_slot ON scores(slot, score DESC);
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

// SaveGame stores the serialized game for a slot, replacing any previous one.
func (s *Store) SaveGame(slot string, payload []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO saves (slot, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		slot, string(payload),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save game %s: %w", slot, err)
	}
	return nil
}

// LoadGame returns the serialized game for a slot, or t2048.ErrNoState.
func (s *Store) LoadGame(slot string) ([]byte, error) {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM saves WHERE slot = ?", slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, t2048.ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load game %s: %w", slot, err)
	}
	return []byte(payload), nil
}

// DeleteGame removes a slot's saved game.
func (s *Store) DeleteGame(slot string) error {
	if _, err := s.db.Exec("DELETE FROM saves WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("storage: cannot delete game %s: %w", slot, err)
	}
	return nil
}

// Saves lists every stored game, most recently updated first.
func (s *Store) Saves() ([]SaveInfo, error) {
	rows, err := s.db.Query(
		`SELECT slot, length(payload), updated_at FROM saves ORDER BY updated_at DESC, slot`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var saves []SaveInfo
	for rows.Next() {
		var info SaveInfo
		var updatedAt any
		if err := rows.Scan(&info.Slot, &info.Bytes, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		info.UpdatedAt = parseTimestamp(updatedAt)
		saves = append(saves, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return saves, nil
}

// SaveScore records a finished game for a slot.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(slot string, rec t2048.ScoreRecord) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (slot, score, name, max_tile, moves) VALUES (?, ?, ?, ?, ?)",
		slot, rec.Score, rec.Name, rec.MaxTile, rec.Moves,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores across all slots.
// Results are ordered by score descending, oldest first on ties.
func (s *Store) TopScores(limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScores(
		`SELECT id, slot, score, name, max_tile, moves, created_at
		 FROM scores
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
}

// SlotScores retrieves the top N scores for one slot.
func (s *Store) SlotScores(slot string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScores(
		`SELECT id, slot, score, name, max_tile, moves, created_at
		 FROM scores
		 WHERE slot = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		slot, limit,
	)
}

func (s *Store) queryScores(query string, args ...any) ([]ScoreEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Slot, &e.Score, &e.Name, &e.MaxTile, &e.Moves, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTimestamp handles both time.Time and string DATETIME values.
func parseTimestamp(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// HighScore returns the highest recorded score, or 0 if there are none.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(score) FROM scores").Scan(&score); err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	return int(score.Int64), nil
}

// ClearScores deletes the score history for one slot, or for every slot
// when slot is empty.
func (s *Store) ClearScores(slot string) error {
	var err error
	if slot == "" {
		_, err = s.db.Exec("DELETE FROM scores")
	} else {
		_, err = s.db.Exec("DELETE FROM scores WHERE slot = ?", slot)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Slot binds the store to one save slot. The result is both the engine's
// persistence backend and its score recorder.
func (s *Store) Slot(name string) *SlotStore {
	return &SlotStore{store: s, slot: name}
}

// SlotStore is a Store bound to one slot.
type SlotStore struct {
	store *Store
	slot  string
}

// Name returns the slot name.
func (ss *SlotStore) Name() string {
	return ss.slot
}

// ReadState implements t2048.Backend.
func (ss *SlotStore) ReadState() ([]byte, error) {
	return ss.store.LoadGame(ss.slot)
}

// WriteState implements t2048.Backend.
func (ss *SlotStore) WriteState(data []byte) error {
	return ss.store.SaveGame(ss.slot, data)
}

// RecordScore implements t2048.ScoreRecorder.
func (ss *SlotStore) RecordScore(rec t2048.ScoreRecord) error {
	_, err := ss.store.SaveScore(ss.slot, rec)
	return err
}

var (
	_ t2048.Backend       = (*SlotStore)(nil)
	_ t2048.ScoreRecorder = (*SlotStore)(nil)
)
