package store

import "fmt"

// StorageError wraps an underlying persistence failure (I/O fault,
// corruption, schema mismatch). The store never swallows these; every
// failed statement surfaces as a StorageError to the caller.
type StorageError struct {
	Op  string // operation that failed, e.g. "record", "query stats"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// storageErr wraps err as a StorageError, or passes nil through.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// ValidationError reports malformed input to a public call. Nothing is
// written when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
