// Package storetest holds the behaviour every store.Collection backend must
// share. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-graph/internal/domain"
	"github.com/Tomlord1122/todo-graph/internal/store"
)

// Factory returns an empty collection for one subtest.
type Factory func(t *testing.T) store.Collection

// Options carries backend specific ids. MissingID must be well-formed for the
// backend but never assigned; MalformedID must not parse as an id at all.
type Options struct {
	MissingID   string
	MalformedID string
}

func Run(t *testing.T, newCollection Factory, opts Options) {
	t.Helper()

	t.Run("ListAllEmpty", func(t *testing.T) {
		c := newCollection(t)
		todos, err := c.ListAll(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, todos)
		assert.Empty(t, todos)
	})

	t.Run("InsertAssignsID", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		a := domain.NewTodo("A", nil)
		a.ID = "caller-supplied"
		require.NoError(t, c.Insert(ctx, a))
		b := domain.NewTodo("B", strPtr("second"))
		require.NoError(t, c.Insert(ctx, b))

		assert.NotEmpty(t, a.ID)
		assert.NotEqual(t, "caller-supplied", a.ID)
		assert.NotEqual(t, a.ID, b.ID)

		todos, err := c.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, todos, 2)
	})

	t.Run("FindByID", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		todo := domain.NewTodo("Buy milk", nil)
		require.NoError(t, c.Insert(ctx, todo))

		got, err := c.FindByID(ctx, todo.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.Todo{ID: todo.ID, Title: "Buy milk"}, *got)

		missing, err := c.FindByID(ctx, opts.MissingID)
		require.NoError(t, err)
		assert.Nil(t, missing)

		malformed, err := c.FindByID(ctx, opts.MalformedID)
		require.NoError(t, err)
		assert.Nil(t, malformed)
	})

	t.Run("MergeUpdateWritesOnlyGivenFields", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		todo := domain.NewTodo("A", strPtr("before"))
		require.NoError(t, c.Insert(ctx, todo))

		got, err := c.MergeUpdate(ctx, todo.ID, store.Changes{Completed: boolPtr(true)})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "A", got.Title)
		require.NotNil(t, got.Description)
		assert.Equal(t, "before", *got.Description)
		assert.True(t, got.Completed)

		got, err = c.MergeUpdate(ctx, todo.ID, store.Changes{Title: strPtr("B"), Completed: boolPtr(false)})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "B", got.Title)
		assert.False(t, got.Completed)

		reread, err := c.FindByID(ctx, todo.ID)
		require.NoError(t, err)
		assert.Equal(t, got, reread)
	})

	t.Run("MergeUpdateEmptyChanges", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		todo := domain.NewTodo("A", nil)
		require.NoError(t, c.Insert(ctx, todo))

		got, err := c.MergeUpdate(ctx, todo.ID, store.Changes{})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, *todo, *got)
	})

	t.Run("MergeUpdateMissing", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		got, err := c.MergeUpdate(ctx, opts.MissingID, store.Changes{Title: strPtr("x")})
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = c.MergeUpdate(ctx, opts.MalformedID, store.Changes{Title: strPtr("x")})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("DeleteByID", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		todo := domain.NewTodo("A", strPtr("note"))
		require.NoError(t, c.Insert(ctx, todo))

		removed, err := c.DeleteByID(ctx, todo.ID)
		require.NoError(t, err)
		require.NotNil(t, removed)
		assert.Equal(t, *todo, *removed)

		again, err := c.DeleteByID(ctx, todo.ID)
		require.NoError(t, err)
		assert.Nil(t, again)

		gone, err := c.FindByID(ctx, todo.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)

		malformed, err := c.DeleteByID(ctx, opts.MalformedID)
		require.NoError(t, err)
		assert.Nil(t, malformed)
	})
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
