package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"syncpath/internal/database/migrations"
	"syncpath/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Operation statuses stored in the journal.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// SQLiteDatabase is the operation journal backed by SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase opens the journal at path. path can be a file path or
// ":memory:" for an in-memory journal.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteDatabase{db: db, path: path}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{db: db}
}

// OpenConnection opens and configures a SQLite connection.
// Exported for tests that need a properly configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// CreateOperation records the start of a command and returns the new row.
func (s *SQLiteDatabase) CreateOperation(runID, operation, parameters string, startedAt time.Time) (*model.Operation, error) {
	res, err := s.db.ExecContext(context.Background(),
		`INSERT INTO operations (run_id, operation, parameters, status, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		runID, operation, parameters, StatusRunning, startedAt.UTC())
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading operation id: %w", err)
	}
	return &model.Operation{
		ID:         id,
		RunID:      runID,
		Operation:  operation,
		Parameters: parameters,
		Status:     StatusRunning,
		StartedAt:  startedAt.UTC(),
	}, nil
}

// FinishOperation sets the final status and result of a running operation.
func (s *SQLiteDatabase) FinishOperation(id int64, status, result string, finishedAt time.Time) error {
	if status != StatusSuccess && status != StatusError {
		return fmt.Errorf("finishing operation %d: invalid status %q", id, status)
	}
	res, err := s.db.ExecContext(context.Background(),
		`UPDATE operations SET status = ?, result = ?, finished_at = ?
		 WHERE id = ? AND status = ?`,
		status, result, finishedAt.UTC(), id, StatusRunning)
	if err != nil {
		return fmt.Errorf("finishing operation %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing operation %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("finishing operation %d: no running operation with that id", id)
	}
	return nil
}

// FindOperation returns the operation with id, or nil if there is none.
func (s *SQLiteDatabase) FindOperation(id int64) (*model.Operation, error) {
	row := s.db.QueryRowContext(context.Background(),
		`SELECT id, run_id, operation, parameters, status, result, started_at, finished_at
		 FROM operations WHERE id = ?`, id)
	op, err := scanOperation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding operation %d: %w", id, err)
	}
	return op, nil
}

// ListOperations returns the most recent operations, newest first.
// A limit of zero or less returns all of them.
func (s *SQLiteDatabase) ListOperations(limit int) ([]*model.Operation, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT id, run_id, operation, parameters, status, result, started_at, finished_at
		 FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*model.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOperation(row scanner) (*model.Operation, error) {
	var op model.Operation
	var params, result sql.NullString
	err := row.Scan(&op.ID, &op.RunID, &op.Operation, &params, &op.Status, &result, &op.StartedAt, &op.FinishedAt)
	if err != nil {
		return nil, err
	}
	op.Parameters = params.String
	op.Result = result.String
	return &op, nil
}

// Path returns the journal file path (or ":memory:" for in-memory journals).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the journal schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckStatus(s.db)
}

// BackupTo writes a complete copy of the journal to destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up journal: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
