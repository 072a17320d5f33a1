// Package parsererror defines the error taxonomy used across ingestion,
// category management and persistence. Nothing in the categorization path is
// fatal to the process; these types let callers recover at the call boundary.
package parsererror

import "fmt"

// IngestionError represents a rejected input file: unsupported format,
// missing required columns, or rows that cannot be parsed at all.
// Categorization is never invoked when ingestion fails.
type IngestionError struct {
	FilePath string
	Reason   string
	Err      error
}

func (e *IngestionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ingestion failed for %s: %s: %v", e.FilePath, e.Reason, e.Err)
	}
	return fmt.Sprintf("ingestion failed for %s: %s", e.FilePath, e.Reason)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// ValidationError represents a rejected category or keyword mutation:
// empty or over-long names, duplicates, unknown targets, or an attempt to
// remove a default category.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Value, e.Reason)
}

// PersistenceError represents a store read/write fault. The operation
// returns failure rather than panicking; prior in-memory state remains
// authoritative for the session.
type PersistenceError struct {
	Store string
	Op    string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s store: %s failed: %v", e.Store, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Result is the success-flag plus message shape surfaced to interactive
// callers for mutations that may be rejected.
type Result struct {
	OK      bool
	Message string
}

// ResultOK builds a successful Result.
func ResultOK(message string) Result {
	return Result{OK: true, Message: message}
}

// ResultErr builds a failed Result from an error.
func ResultErr(err error) Result {
	return Result{OK: false, Message: err.Error()}
}
