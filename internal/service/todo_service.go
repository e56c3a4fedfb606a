package service

import (
	"context"

	"github.com/Tomlord1122/todo-graph/internal/domain"
	"github.com/Tomlord1122/todo-graph/internal/repository"
)

// Input/Output Structs (Data Transfer Objects - DTOs)
// They decouple the transports from the repository and the store.

// CreateTodoRequest holds the data needed to create a new todo
type CreateTodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// UpdateTodoRequest holds the data for updating an existing todo.
// Using pointers allows distinguishing between a field being omitted
// vs. being set to its zero value (e.g., setting Completed to false).
type UpdateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// TodoResponse is the standard representation of a Todo returned by the service.
type TodoResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

// --- Service Interface ---

// TodoService exposes the query and mutation operations to the transports.
//
// Single-item operations return (nil, nil) when no todo has the given id.
// Errors from the repository are returned unchanged and are not logged here;
// the transports log them with the request id.
type TodoService interface {
	// ListTodos returns every todo. Never nil.
	ListTodos(ctx context.Context) ([]TodoResponse, error)

	// GetTodo returns one todo or nil.
	GetTodo(ctx context.Context, id string) (*TodoResponse, error)

	// CreateTodo rejects an empty title with domain.ErrTitleRequired.
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error)

	// UpdateTodo returns the todo after the merge, or nil.
	UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (*TodoResponse, error)

	// DeleteTodo returns the removed todo, or nil.
	DeleteTodo(ctx context.Context, id string) (*TodoResponse, error)
}

// --- Service Implementation ---

type todoService struct {
	repo repository.TodoRepository
}

// NewTodoService creates a new instance of todoService.
func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo}
}

func (s *todoService) ListTodos(ctx context.Context) ([]TodoResponse, error) {
	todos, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, *toResponse(&todos[i]))
	}
	return responses, nil
}

func (s *todoService) GetTodo(ctx context.Context, id string) (*TodoResponse, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(todo), nil
}

func (s *todoService) CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error) {
	if req.Title == "" {
		return nil, domain.ErrTitleRequired
	}

	todo, err := s.repo.Create(ctx, req.Title, req.Description)
	if err != nil {
		return nil, err
	}
	return toResponse(todo), nil
}

func (s *todoService) UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (*TodoResponse, error) {
	todo, err := s.repo.Update(ctx, id, req.Title, req.Description, req.Completed)
	if err != nil {
		return nil, err
	}
	return toResponse(todo), nil
}

func (s *todoService) DeleteTodo(ctx context.Context, id string) (*TodoResponse, error) {
	todo, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(todo), nil
}

// toResponse maps an absent todo to a nil response.
func toResponse(todo *domain.Todo) *TodoResponse {
	if todo == nil {
		return nil
	}
	return &TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
	}
}
