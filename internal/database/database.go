package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/omriShneor/salesdesk/internal/database/migrations"
	"github.com/omriShneor/salesdesk/internal/logger"
)

type DB struct {
	*sql.DB
}

// New opens (or creates) the SQLite file at dbPath and applies pending
// migrations. A nil log discards migration output.
func New(dbPath string, log logger.Logger) (*DB, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	// WAL lets the HTTP handlers read while a pipeline run writes.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrations.RunMigrations(db, log); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{db}, nil
}

func (d *DB) Close() error {
	return d.DB.Close()
}
