// Package store is the client's small persistent scratch space: the
// persisted backend override, pending OAuth state, and cross-run hints that
// a browser would keep in session storage.
package store

import (
	"crypto/rand"
	"database/sql"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

const schema = `
CREATE TABLE IF NOT EXISTS hints (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// Well-known hint keys.
const (
	KeyBaseURLOverride = "base_url_override"
	KeyOAuthState      = "oauth_state"
	KeyLastWizardEntry = "last_wizard_entry"
)

type Hints struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func Open(path string) (*Hints, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema + activitySchema); err != nil {
		db.Close()
		return nil, err
	}

	return &Hints{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Set stores or replaces a hint.
func (h *Hints) Set(key, value string) error {
	_, err := h.db.Exec(`
		INSERT INTO hints (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	return err
}

// Get returns the hint value and whether it was present.
func (h *Hints) Get(key string) (string, bool, error) {
	var value string
	err := h.db.QueryRow(`SELECT value FROM hints WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Delete removes a hint. Deleting an absent key is not an error.
func (h *Hints) Delete(key string) error {
	_, err := h.db.Exec(`DELETE FROM hints WHERE key = ?`, key)
	return err
}

func (h *Hints) Close() error {
	return h.db.Close()
}
