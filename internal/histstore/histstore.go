// Package histstore persists submitted prompt text across process
// restarts. It is the one piece of the prompt-history feature that
// isn't pure state: everything it touches is a boundary (disk, SQL),
// so unlike the core vim engine it returns errors instead of being
// total.
package histstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"reapo/internal/history"
	"reapo/internal/logger"
)

// DefaultPath returns the on-disk location of the prompt history
// database, creating its parent directory if necessary.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("histstore: resolve home dir: %w", err)
	}
	dir := filepath.Join(home, ".config", "reapo")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("histstore: create %s: %w", dir, err)
	}
	return filepath.Join(dir, "history.db"), nil
}

const schema = `
CREATE TABLE IF NOT EXISTS prompt_history (
	id INTEGER PRIMARY KEY,
	body TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store wraps a sqlite3-backed prompt_history table.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite3 database at path and
// ensures the prompt_history table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("histstore: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("histstore: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records a submitted prompt body.
func (s *Store) Append(body string) error {
	if body == "" {
		return nil
	}
	if _, err := s.db.Exec(`INSERT INTO prompt_history (body) VALUES (?)`, body); err != nil {
		return fmt.Errorf("histstore: append: %w", err)
	}
	return nil
}

// Recent returns up to limit most recent prompt bodies, oldest first
// (the order Navigator expects).
func (s *Store) Recent(limit int) ([]string, error) {
	rows, err := s.db.Query(`SELECT body FROM prompt_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("histstore: recent: %w", err)
	}
	defer rows.Close()

	var reversed []string
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("histstore: scan: %w", err)
		}
		reversed = append(reversed, body)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("histstore: recent: %w", err)
	}

	out := make([]string, len(reversed))
	for i, b := range reversed {
		out[len(reversed)-1-i] = b
	}
	return out, nil
}

// LoadNavigator opens path and builds a Navigator over the most recent
// limit prompts, logging and falling back to an empty history on any
// error rather than blocking prompt startup on disk trouble.
func LoadNavigator(path string, limit int) (*Store, *history.Navigator) {
	store, err := Open(path)
	if err != nil {
		logger.Error("histstore: %v, starting with empty history", err)
		return nil, history.NewNavigator(nil)
	}
	messages, err := store.Recent(limit)
	if err != nil {
		logger.Error("histstore: %v, starting with empty history", err)
		return store, history.NewNavigator(nil)
	}
	return store, history.NewNavigator(messages)
}
