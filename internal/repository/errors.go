package repository

import "fmt"

// Op tags the repository operation a RepositoryError came from.
type Op string

const (
	OpFetch  Op = "fetch"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// RepositoryError is the only error kind the repository returns. It wraps
// the store failure unchanged.
type RepositoryError struct {
	Op  Op
	Err error

	many bool
}

func (e *RepositoryError) Error() string {
	noun := "todo"
	if e.many {
		noun = "todos"
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Op, noun, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

func wrap(op Op, err error) error {
	return &RepositoryError{Op: op, Err: err}
}
