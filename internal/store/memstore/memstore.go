package memstore

import (
	"context"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/Tomlord1122/todo-graph/internal/domain"
	"github.com/Tomlord1122/todo-graph/internal/store"
)

// Collection keeps todos in process memory, in insertion order.
// Safe for concurrent use; every read returns a copy.
type Collection struct {
	mu    sync.RWMutex
	order []string
	todos map[string]domain.Todo
}

var _ store.Collection = (*Collection)(nil)

func New() *Collection {
	return &Collection{todos: make(map[string]domain.Todo)}
}

func (c *Collection) ListAll(ctx context.Context) ([]domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Todo, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, clone(c.todos[id]))
	}
	return out, nil
}

func (c *Collection) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.todos[id]
	if !ok {
		return nil, nil
	}
	t = clone(t)
	return &t, nil
}

func (c *Collection) Insert(ctx context.Context, todo *domain.Todo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	todo.ID = uuid.NewString()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.todos[todo.ID] = clone(*todo)
	c.order = append(c.order, todo.ID)
	return nil
}

func (c *Collection) MergeUpdate(ctx context.Context, id string, changes store.Changes) (*domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.todos[id]
	if !ok {
		return nil, nil
	}
	changes.Apply(&t)
	c.todos[id] = t

	t = clone(t)
	return &t, nil
}

func (c *Collection) DeleteByID(ctx context.Context, id string) (*domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.todos[id]
	if !ok {
		return nil, nil
	}
	delete(c.todos, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return &t, nil
}

// Health mirrors the database service's health map so the server can report
// on whichever backend is active.
func (c *Collection) Health() map[string]string {
	c.mu.RLock()
	n := len(c.order)
	c.mu.RUnlock()

	return map[string]string{
		"status":    "up",
		"message":   "It's healthy",
		"driver":    "memory",
		"documents": strconv.Itoa(n),
	}
}

func clone(t domain.Todo) domain.Todo {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return t
}
