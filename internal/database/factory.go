package database

import (
	"fmt"
	"os"
	"path/filepath"

	"syncpath/internal/config"
	"syncpath/internal/database/migrations"
)

// JournalFile is the journal's file name inside the configured data_dir.
const JournalFile = "journal.db"

// NewDatabaseFromConfig opens the journal described by cfg and brings its
// schema up to date.
func NewDatabaseFromConfig(cfg config.DatabaseConfig) (*SQLiteDatabase, error) {
	var path string
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		path = filepath.Join(cfg.DataDir, JournalFile)
	case "memory":
		path = ":memory:"
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}

	db, err := NewSQLiteDatabase(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db.db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
