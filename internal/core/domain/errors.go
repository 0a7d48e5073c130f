package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidArgument indicates a caller supplied an unusable parameter,
	// such as a non-positive chunk size. It is raised before any I/O.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSourceNotFound indicates the source document does not exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrSourceEmpty indicates the source document has no content at all.
	ErrSourceEmpty = errors.New("source is empty")

	// ErrUnsupportedSource indicates no reader handles the source format.
	ErrUnsupportedSource = errors.New("unsupported source format")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")
)

// StoreWriteError reports a failure while creating the schema or inserting
// chunks. Committed is the number of chunk rows that were durably committed
// before the failure; those rows remain in the store.
type StoreWriteError struct {
	Committed int
	Err       error
}

// Error implements the error interface.
func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write failed after %d committed rows: %v", e.Committed, e.Err)
}

// Unwrap returns the underlying store error.
func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// NewStoreWriteError wraps err with the count of rows already committed.
func NewStoreWriteError(committed int, err error) *StoreWriteError {
	return &StoreWriteError{Committed: committed, Err: err}
}
