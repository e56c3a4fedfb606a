// Package graph serves the todo query and mutation API over GraphQL.
//
// The schema is written out by hand here:
//
//	type Todo { id: String!  title: String!  description: String  completed: Boolean! }
//	type Query { todos: [Todo!]!  todo(id: String!): Todo }
//	type Mutation {
//	  createTodo(title: String!, description: String): Todo!
//	  updateTodo(id: String!, title: String, description: String, completed: Boolean): Todo
//	  deleteTodo(id: String!): Todo
//	}
package graph

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"

	"github.com/Tomlord1122/todo-graph/internal/service"
)

// NewSchema builds the schema with resolvers bound to svc. Failed operations
// are logged to logger.
func NewSchema(svc service.TodoService, logger logrus.FieldLogger) (graphql.Schema, error) {
	r := &resolver{svc: svc, logger: logger}

	todoType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Todo",
		Description: "A single task item.",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					todo, err := source(p)
					if err != nil {
						return nil, err
					}
					return todo.ID, nil
				},
			},
			"title": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					todo, err := source(p)
					if err != nil {
						return nil, err
					}
					return todo.Title, nil
				},
			},
			"description": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					todo, err := source(p)
					if err != nil {
						return nil, err
					}
					if todo.Description != nil {
						return *todo.Description, nil
					}
					return nil, nil
				},
			},
			"completed": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					todo, err := source(p)
					if err != nil {
						return nil, err
					}
					return todo.Completed, nil
				},
			},
		},
	})

	idArg := &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"todos": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(todoType))),
				Resolve: r.todos,
			},
			"todo": &graphql.Field{
				Type:    todoType,
				Args:    graphql.FieldConfigArgument{"id": idArg},
				Resolve: r.todo,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createTodo": &graphql.Field{
				Type: graphql.NewNonNull(todoType),
				Args: graphql.FieldConfigArgument{
					"title":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.createTodo,
			},
			"updateTodo": &graphql.Field{
				Type: todoType,
				Args: graphql.FieldConfigArgument{
					"id":          idArg,
					"title":       &graphql.ArgumentConfig{Type: graphql.String},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
					"completed":   &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: r.updateTodo,
			},
			"deleteTodo": &graphql.Field{
				Type:    todoType,
				Args:    graphql.FieldConfigArgument{"id": idArg},
				Resolve: r.deleteTodo,
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("build graphql schema: %w", err)
	}
	return schema, nil
}
