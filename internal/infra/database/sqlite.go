package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS pending_pings (
	event_name   TEXT PRIMARY KEY,
	channel_id   TEXT NOT NULL,
	message_id   TEXT NOT NULL,
	delete_after INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS display_artifact (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	channel_id TEXT NOT NULL,
	message_id TEXT NOT NULL
);
`

// NewSQLiteConnection opens (creating if needed) the embedded state store
// and applies the schema. The store holds only recovery state: the pending
// ping table and the display artifact handle.
func NewSQLiteConnection(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")
	_, _ = db.Exec("PRAGMA busy_timeout = 5000")

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply state store schema: %w", err)
	}
	return db, nil
}
