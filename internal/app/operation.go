package app

import "syncpath/internal/database"

// Operation tracks the CLI command being run. It is created in memory with
// ID=0; path commands persist it to the journal, read-only commands such as
// history never do.
type Operation struct {
	ID         int64
	RunID      string
	Operation  string
	Parameters string
	Status     string // "success" or "error"
	Result     string
}

// NewOperation creates a new in-memory operation.
func NewOperation(runID, operation string) *Operation {
	return &Operation{
		RunID:     runID,
		Operation: operation,
		Status:    database.StatusSuccess,
	}
}

// Persisted returns true if this operation has been saved to the journal.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}

// Succeed records the value the command produced.
func (op *Operation) Succeed(result string) {
	op.Status = database.StatusSuccess
	op.Result = result
}

// Fail records err as the command's outcome.
func (op *Operation) Fail(err error) {
	op.Status = database.StatusError
	op.Result = err.Error()
}

// Record sets the outcome from a result/error pair and returns err unchanged.
func (op *Operation) Record(result string, err error) error {
	if err != nil {
		op.Fail(err)
		return err
	}
	op.Succeed(result)
	return nil
}
