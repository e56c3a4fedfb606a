package main

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-graph/internal/config"
	"github.com/Tomlord1122/todo-graph/internal/domain"
	"github.com/Tomlord1122/todo-graph/internal/logging"
)

func TestOpenBackendMemory(t *testing.T) {
	cfg := &config.Config{Driver: config.DriverMemory, Collection: "todos"}
	be, err := openBackend(context.Background(), cfg, logging.NewWithOutput(io.Discard, "test", "error"))
	require.NoError(t, err)

	require.NoError(t, be.todos.Insert(context.Background(), domain.NewTodo("A", nil)))
	assert.Equal(t, "up", be.health.Health()["status"])
	assert.NoError(t, be.close(context.Background()))
}
