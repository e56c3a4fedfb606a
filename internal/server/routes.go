package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/Tomlord1122/todo-graph/internal/domain"
	"github.com/Tomlord1122/todo-graph/internal/graph"
	"github.com/Tomlord1122/todo-graph/internal/service"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(s.metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.healthHandler)
	r.Handle("/metrics", s.metrics.Handler())

	gql := graph.NewHandler(&s.schema, s.graphiql)
	r.Get("/graphql", gql.ServeHTTP)
	r.Post("/graphql", gql.ServeHTTP)

	r.Route("/todos", func(r chi.Router) {
		r.Post("/", s.createTodoHandler)
		r.Get("/", s.getAllTodosHandler)
		r.Get("/{id}", s.getTodoByIDHandler)
		r.Put("/{id}", s.updateTodoHandler)
		r.Patch("/{id}", s.updateTodoHandler)
		r.Delete("/{id}", s.deleteTodoHandler)
	})

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.health.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	todo, err := s.todoService.CreateTodo(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrTitleRequired) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.requestLog(r).WithError(err).Error("create todo")
		respondWithError(w, http.StatusInternalServerError, "Failed to create todo")
		return
	}

	respondWithJSON(w, http.StatusCreated, todo)
}

func (s *Server) getAllTodosHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todoService.ListTodos(r.Context())
	if err != nil {
		s.requestLog(r).WithError(err).Error("list todos")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve todos")
		return
	}

	respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) getTodoByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	todo, err := s.todoService.GetTodo(r.Context(), id)
	if err != nil {
		s.requestLog(r).WithError(err).Error("get todo")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve todo")
		return
	}
	if todo == nil {
		respondWithError(w, http.StatusNotFound, notFound(id))
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req service.UpdateTodoRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	todo, err := s.todoService.UpdateTodo(r.Context(), id, req)
	if err != nil {
		s.requestLog(r).WithError(err).Error("update todo")
		respondWithError(w, http.StatusInternalServerError, "Failed to update todo")
		return
	}
	if todo == nil {
		respondWithError(w, http.StatusNotFound, notFound(id))
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	todo, err := s.todoService.DeleteTodo(r.Context(), id)
	if err != nil {
		s.requestLog(r).WithError(err).Error("delete todo")
		respondWithError(w, http.StatusInternalServerError, "Failed to delete todo")
		return
	}
	if todo == nil {
		respondWithError(w, http.StatusNotFound, notFound(id))
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func notFound(id string) string {
	return fmt.Sprintf("todo with ID %s not found", id)
}

func (s *Server) requestLog(r *http.Request) *logrus.Entry {
	return s.logger.WithField("request_id", middleware.GetReqID(r.Context()))
}

// decodeBody decodes a single JSON object into dst and writes a 400 with a
// specific message when the body is unusable.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	if err == nil {
		return true
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	case errors.Is(err, io.ErrUnexpectedEOF):
		respondWithError(w, http.StatusBadRequest, "Request body contains badly-formed JSON")
	case errors.As(err, &unmarshalTypeError):
		msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Request body contains unknown field %s", fieldName))
	case errors.Is(err, io.EOF):
		respondWithError(w, http.StatusBadRequest, "Request body must not be empty")
	default:
		s.requestLog(r).WithError(err).Error("decode request body")
		respondWithError(w, http.StatusInternalServerError, "Error processing request")
	}
	return false
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
