package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStorage implements the storage.Storage interface using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	actor         TEXT NOT NULL,
	stage         TEXT NOT NULL,
	view          TEXT NOT NULL DEFAULT '',
	focus_id      TEXT NOT NULL DEFAULT '',
	session_focus_kind TEXT NOT NULL DEFAULT '',
	session_focus TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMP NOT NULL,
	updated_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS shortcut_uses (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	kind       TEXT NOT NULL,
	used_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_shortcut_uses_session ON shortcut_uses(session_id);

CREATE TABLE IF NOT EXISTS navigation_events (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	severity   TEXT NOT NULL,
	message    TEXT NOT NULL,
	stage      TEXT NOT NULL,
	view       TEXT NOT NULL DEFAULT '',
	focus_id   TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_navigation_events_session ON navigation_events(session_id, created_at);

CREATE TABLE IF NOT EXISTS config (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// New creates a new SQLite storage backend
func New(path string) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
