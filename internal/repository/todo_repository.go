package repository

import (
	"context"

	"github.com/Tomlord1122/todo-graph/internal/domain"
	"github.com/Tomlord1122/todo-graph/internal/store"
)

// TodoRepository defines the interface for todo data operations.
// A missing todo is reported as a nil result, never as an error.
type TodoRepository interface {
	ListAll(ctx context.Context) ([]domain.Todo, error)
	FindByID(ctx context.Context, id string) (*domain.Todo, error)
	Create(ctx context.Context, title string, description *string) (*domain.Todo, error)
	Update(ctx context.Context, id string, title, description *string, completed *bool) (*domain.Todo, error)
	Delete(ctx context.Context, id string) (*domain.Todo, error)
}

// todoRepository implements TodoRepository on any store.Collection.
// Every call is exactly one round trip; nothing is cached between calls.
type todoRepository struct {
	todos store.Collection
}

// NewTodoRepository creates a repository over the given collection.
func NewTodoRepository(todos store.Collection) TodoRepository {
	return &todoRepository{todos: todos}
}

// ListAll returns every todo in store order, or an empty slice.
func (r *todoRepository) ListAll(ctx context.Context) ([]domain.Todo, error) {
	todos, err := r.todos.ListAll(ctx)
	if err != nil {
		return nil, &RepositoryError{Op: OpFetch, Err: err, many: true}
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	return todos, nil
}

// FindByID does not tell a malformed id apart from one that does not exist.
func (r *todoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	todo, err := r.todos.FindByID(ctx, id)
	if err != nil {
		return nil, wrap(OpFetch, err)
	}
	return todo, nil
}

// Create persists a new todo. The title is not validated here.
func (r *todoRepository) Create(ctx context.Context, title string, description *string) (*domain.Todo, error) {
	todo := domain.NewTodo(title, description)
	if err := r.todos.Insert(ctx, todo); err != nil {
		return nil, wrap(OpCreate, err)
	}
	return todo, nil
}

// Update merges the supplied fields into the stored todo.
//
// title and description are only applied when non-empty: an empty string
// means "no change", so neither field can be cleared through Update.
// completed is applied whenever it is supplied, false included.
// TODO: decide whether empty title/description should clear the field and
// switch them to the same presence check completed uses.
func (r *todoRepository) Update(ctx context.Context, id string, title, description *string, completed *bool) (*domain.Todo, error) {
	var changes store.Changes
	if title != nil && *title != "" {
		changes.Title = title
	}
	if description != nil && *description != "" {
		changes.Description = description
	}
	if completed != nil {
		changes.Completed = completed
	}

	todo, err := r.todos.MergeUpdate(ctx, id, changes)
	if err != nil {
		return nil, wrap(OpUpdate, err)
	}
	return todo, nil
}

// Delete removes the todo permanently and returns it as it was.
func (r *todoRepository) Delete(ctx context.Context, id string) (*domain.Todo, error) {
	todo, err := r.todos.DeleteByID(ctx, id)
	if err != nil {
		return nil, wrap(OpDelete, err)
	}
	return todo, nil
}
