// Package store defines the narrow document-collection contract the
// repository talks to. Backends live in the subpackages.
package store

import (
	"context"

	"github.com/Tomlord1122/todo-graph/internal/domain"
)

// Collection is a named collection of todo documents, each carrying a
// store-generated identifier.
//
// Absent documents are reported as (nil, nil), never as an error. An id the
// backend cannot parse is treated the same as an id that does not exist.
type Collection interface {
	// ListAll returns every document in store order. Never nil.
	ListAll(ctx context.Context) ([]domain.Todo, error)

	// FindByID returns the document with the given id.
	FindByID(ctx context.Context, id string) (*domain.Todo, error)

	// Insert persists todo and sets todo.ID to the generated identifier.
	Insert(ctx context.Context, todo *domain.Todo) error

	// MergeUpdate sets exactly the non-nil fields of changes on the document
	// and returns the document as it is after the write.
	MergeUpdate(ctx context.Context, id string, changes Changes) (*domain.Todo, error)

	// DeleteByID removes the document and returns it as it was.
	DeleteByID(ctx context.Context, id string) (*domain.Todo, error)
}

// Changes is the set of fields a MergeUpdate writes. Nil means untouched.
type Changes struct {
	Title       *string
	Description *string
	Completed   *bool
}

// IsEmpty reports whether no field would be written.
func (c Changes) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Completed == nil
}

// Apply merges the changes into todo in place.
func (c Changes) Apply(todo *domain.Todo) {
	if c.Title != nil {
		todo.Title = *c.Title
	}
	if c.Description != nil {
		d := *c.Description
		todo.Description = &d
	}
	if c.Completed != nil {
		todo.Completed = *c.Completed
	}
}

// Columns renders the changes as a column/field map keyed by the persisted
// field names.
func (c Changes) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if c.Title != nil {
		cols["title"] = *c.Title
	}
	if c.Description != nil {
		cols["description"] = *c.Description
	}
	if c.Completed != nil {
		cols["completed"] = *c.Completed
	}
	return cols
}
