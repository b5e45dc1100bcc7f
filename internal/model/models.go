package model

import (
	"database/sql"
	"time"
)

// Operation is one CLI command recorded in the journal.
type Operation struct {
	ID         int64
	RunID      string // UUID shared with the log lines of the same run
	Operation  string // command name, e.g. "Canonicalize"
	Parameters string // raw command arguments
	Status     string // "running", "success" or "error"
	Result     string // resolved path, or the error message
	StartedAt  time.Time
	FinishedAt sql.NullTime
}

// Duration returns how long the operation ran, or zero if it has not finished.
func (o *Operation) Duration() time.Duration {
	if !o.FinishedAt.Valid {
		return 0
	}
	return o.FinishedAt.Time.Sub(o.StartedAt)
}
