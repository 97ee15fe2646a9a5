package sqlitedb

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type Config struct {
	Path        string `split_words:"true" default:"logis.db"`
	BusyTimeout int    `split_words:"true" default:"5000"`
}

// New opens (or creates) the SQLite database at the configured path.
// WAL journaling keeps readers unblocked while the mutation path writes.
func (c *Config) New() (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d", c.Path, c.BusyTimeout)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Open is a convenience for callers that already hold a path, such as the
// migration command and tests.
func Open(path string) (*sql.DB, error) {
	cfg := Config{Path: path, BusyTimeout: 5000}
	return cfg.New()
}
