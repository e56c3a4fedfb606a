package graph

import (
	"errors"
	"fmt"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"

	"github.com/Tomlord1122/todo-graph/internal/domain"
	"github.com/Tomlord1122/todo-graph/internal/service"
)

type resolver struct {
	svc    service.TodoService
	logger logrus.FieldLogger
}

// logged records a failed operation with the request id and hands err back
// so it still reaches the errors array. Validation errors are the client's
// and are not logged.
func (r *resolver) logged(p graphql.ResolveParams, err error) error {
	if err != nil && !errors.Is(err, domain.ErrTitleRequired) {
		r.logger.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(p.Context),
			"field":      p.Info.FieldName,
		}).WithError(err).Error("graphql resolver")
	}
	return err
}

func (r *resolver) todos(p graphql.ResolveParams) (interface{}, error) {
	todos, err := r.svc.ListTodos(p.Context)
	if err != nil {
		return nil, r.logged(p, err)
	}
	out := make([]*service.TodoResponse, 0, len(todos))
	for i := range todos {
		out = append(out, &todos[i])
	}
	return out, nil
}

func (r *resolver) todo(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	todo, err := r.svc.GetTodo(p.Context, id)
	return r.orNull(p, todo, err)
}

func (r *resolver) createTodo(p graphql.ResolveParams) (interface{}, error) {
	title, _ := p.Args["title"].(string)
	todo, err := r.svc.CreateTodo(p.Context, service.CreateTodoRequest{
		Title:       title,
		Description: optString(p.Args, "description"),
	})
	return r.orNull(p, todo, err)
}

func (r *resolver) updateTodo(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	todo, err := r.svc.UpdateTodo(p.Context, id, service.UpdateTodoRequest{
		Title:       optString(p.Args, "title"),
		Description: optString(p.Args, "description"),
		Completed:   optBool(p.Args, "completed"),
	})
	return r.orNull(p, todo, err)
}

func (r *resolver) deleteTodo(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	todo, err := r.svc.DeleteTodo(p.Context, id)
	return r.orNull(p, todo, err)
}

// orNull turns a nil todo into an untyped nil so it renders as null.
func (r *resolver) orNull(p graphql.ResolveParams, todo *service.TodoResponse, err error) (interface{}, error) {
	if err != nil {
		return nil, r.logged(p, err)
	}
	if todo == nil {
		return nil, nil
	}
	return todo, nil
}

// source is the todo a Todo field resolves against. Anything else is a
// resolver wiring bug and fails the field.
func source(p graphql.ResolveParams) (*service.TodoResponse, error) {
	switch v := p.Source.(type) {
	case *service.TodoResponse:
		if v != nil {
			return v, nil
		}
	case service.TodoResponse:
		return &v, nil
	}
	return nil, fmt.Errorf("todo field %q resolved against %T", p.Info.FieldName, p.Source)
}

// Omitted arguments and variables bound to null are both absent from args.
// A literal null such as `title: null` is rejected by the parser as a syntax
// error, so null only reaches a resolver through variables.
func optString(args map[string]interface{}, key string) *string {
	if v, ok := args[key].(string); ok {
		return &v
	}
	return nil
}

func optBool(args map[string]interface{}, key string) *bool {
	if v, ok := args[key].(bool); ok {
		return &v
	}
	return nil
}
