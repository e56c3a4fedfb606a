package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-graph/internal/config"
	"github.com/Tomlord1122/todo-graph/internal/domain"
	"github.com/Tomlord1122/todo-graph/internal/logging"
	"github.com/Tomlord1122/todo-graph/internal/metrics"
	"github.com/Tomlord1122/todo-graph/internal/repository"
	"github.com/Tomlord1122/todo-graph/internal/service"
	"github.com/Tomlord1122/todo-graph/internal/store"
	"github.com/Tomlord1122/todo-graph/internal/store/memstore"
)

type staticHealth map[string]string

func (h staticHealth) Health() map[string]string { return h }

func newTestServer(t *testing.T, health HealthChecker) *httptest.Server {
	t.Helper()

	coll := memstore.New()
	if health == nil {
		health = coll
	}
	return newTestServerWith(t, coll, health, logging.NewWithOutput(io.Discard, "test", "error"))
}

func newTestServerWith(t *testing.T, coll store.Collection, health HealthChecker, logger *logrus.Logger) *httptest.Server {
	t.Helper()

	svc := service.NewTodoService(repository.NewTodoRepository(coll))

	srv, err := NewServer(config.Server{Port: 8080}, svc, health, metrics.NewHTTP(prometheus.NewRegistry()), logger)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeTodo(t *testing.T, data []byte) service.TodoResponse {
	t.Helper()
	var todo service.TodoResponse
	require.NoError(t, json.Unmarshal(data, &todo), "body=%s", data)
	return todo
}

func decodeErr(t *testing.T, data []byte) string {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &payload), "body=%s", data)
	return payload.Error
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"status":"up"`)
	assert.NotEmpty(t, resp.Header.Get("X-Content-Type-Options"))
}

func TestHealthDown(t *testing.T) {
	ts := newTestServer(t, staticHealth{"status": "down", "error": "db down: refused"})

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, string(body))
}

func TestRESTLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/todos", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/todos", `{"title":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	created := decodeTodo(t, body)
	require.NotEmpty(t, created.ID)
	assert.JSONEq(t, `{"id":"`+created.ID+`","title":"Buy milk","description":null,"completed":false}`, string(body))

	resp, body = doJSON(t, http.MethodPatch, ts.URL+"/todos/"+created.ID, `{"completed":true,"title":""}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	updated := decodeTodo(t, body)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Buy milk", updated.Title)

	resp, body = doJSON(t, http.MethodPut, ts.URL+"/todos/"+created.ID, `{"completed":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.False(t, decodeTodo(t, body).Completed)

	resp, body = doJSON(t, http.MethodDelete, ts.URL+"/todos/"+created.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, created.ID, decodeTodo(t, body).ID)

	resp, body = doJSON(t, http.MethodDelete, ts.URL+"/todos/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, string(body))

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/todos/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, decodeErr(t, body), "not found")
}

func TestCreateValidation(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty title", `{"title":""}`, "title cannot be empty"},
		{"missing title", `{"description":"x"}`, "title cannot be empty"},
		{"empty body", "", "Request body must not be empty"},
		{"bad json", `{"title":`, "Request body contains badly-formed JSON"},
		{"unknown field", `{"title":"a","owner":1}`, `Request body contains unknown field "owner"`},
		{"wrong type", `{"title":5}`, `Request body contains an invalid value for the "title" field`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, http.MethodPost, ts.URL+"/todos", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
			assert.True(t, strings.HasPrefix(decodeErr(t, body), tt.want), string(body))
		})
	}
}

func TestUpdateUnknownID(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := doJSON(t, http.MethodPatch, ts.URL+"/todos/unknown", `{"completed":true}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, string(body))
}

func TestGraphQLEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	payload, err := json.Marshal(map[string]interface{}{
		"query":     `mutation($t: String!) { createTodo(title: $t) { id title completed } }`,
		"variables": map[string]interface{}{"t": "A"},
	})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/graphql", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Data struct {
			CreateTodo service.TodoResponse `json:"createTodo"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "A", out.Data.CreateTodo.Title)

	getResp, body := doJSON(t, http.MethodGet, ts.URL+"/graphql?query="+`%7Btodo(id:%22nope%22)%7Bid%7D%7D`, "")
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	assert.JSONEq(t, `{"data":{"todo":null}}`, string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	doJSON(t, http.MethodGet, ts.URL+"/todos", "")

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `http_requests_total{method="GET",route="/todos`)
}

// unavailableCollection fails every list call.
type unavailableCollection struct{ store.Collection }

func (unavailableCollection) ListAll(context.Context) ([]domain.Todo, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailureLoggedOncePerRequest(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	ts := newTestServerWith(t, unavailableCollection{}, staticHealth{"status": "up"}, logger)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/todos", "")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode, string(body))
	assert.Equal(t, "Failed to retrieve todos", decodeErr(t, body))

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/graphql", `{"query":"{ todos { id } }"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), "failed to fetch todos: connection refused")

	var failures []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			failures = append(failures, e)
		}
	}
	require.Len(t, failures, 2)
	for _, e := range failures {
		assert.NotEmpty(t, e.Data["request_id"])
	}
}
