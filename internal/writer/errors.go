package writer

import (
	"errors"
	"fmt"
)

// Errors returned by the transaction scope.
var (
	ErrNestedTransaction = errors.New("transaction already open")
	ErrNoTransaction     = errors.New("writer used outside its transaction")
	ErrNilDocument       = errors.New("nil document")
)

// MutationError reports a writer operation that would violate a document
// invariant. Returning one from the change closure aborts the transaction
// and restores the document.
type MutationError struct {
	Op  string // the writer operation that failed
	Err error  // the underlying invariant violation
}

// Error returns the error message.
func (e *MutationError) Error() string {
	return fmt.Sprintf("writer: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *MutationError) Unwrap() error {
	return e.Err
}

// mutationErr wraps err as a MutationError for the named operation.
func mutationErr(op string, err error) error {
	return &MutationError{Op: op, Err: err}
}
