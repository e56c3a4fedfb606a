package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"

	"github.com/Tomlord1122/todo-graph/internal/config"
	"github.com/Tomlord1122/todo-graph/internal/graph"
	"github.com/Tomlord1122/todo-graph/internal/metrics"
	"github.com/Tomlord1122/todo-graph/internal/service"
)

// HealthChecker reports on the active store backend. A "status" of "down"
// turns /health into a 503.
type HealthChecker interface {
	Health() map[string]string
}

type Server struct {
	port        int
	graphiql    bool
	todoService service.TodoService
	schema      graphql.Schema
	health      HealthChecker
	metrics     *metrics.HTTP
	logger      *logrus.Logger
}

func NewServer(cfg config.Server, todoService service.TodoService, health HealthChecker, m *metrics.HTTP, logger *logrus.Logger) (*http.Server, error) {
	schema, err := graph.NewSchema(todoService, logger)
	if err != nil {
		return nil, err
	}

	appServer := &Server{
		port:        cfg.Port,
		graphiql:    cfg.GraphiQL,
		todoService: todoService,
		schema:      schema,
		health:      health,
		metrics:     m,
		logger:      logger,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, nil
}
