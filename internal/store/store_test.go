package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tomlord1122/todo-graph/internal/domain"
)

func TestChanges(t *testing.T) {
	assert.True(t, Changes{}.IsEmpty())
	assert.Empty(t, Changes{}.Columns())

	title, desc, done := "B", "note", false
	c := Changes{Title: &title, Description: &desc, Completed: &done}
	assert.False(t, c.IsEmpty())
	assert.Equal(t, map[string]interface{}{"title": "B", "description": "note", "completed": false}, c.Columns())

	todo := domain.Todo{ID: "1", Title: "A", Completed: true}
	c.Apply(&todo)
	assert.Equal(t, "B", todo.Title)
	assert.False(t, todo.Completed)
	desc = "changed after apply"
	assert.Equal(t, "note", *todo.Description)
}

func TestChangesCompletedOnly(t *testing.T) {
	done := true
	c := Changes{Completed: &done}
	assert.Equal(t, map[string]interface{}{"completed": true}, c.Columns())

	todo := domain.Todo{ID: "1", Title: "A"}
	c.Apply(&todo)
	assert.Equal(t, domain.Todo{ID: "1", Title: "A", Completed: true}, todo)
}
