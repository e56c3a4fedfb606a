package graph

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
)

// NewHandler serves schema over HTTP (GET and POST, JSON or
// application/graphql bodies). graphiql enables the in-browser explorer.
func NewHandler(schema *graphql.Schema, graphiql bool) http.Handler {
	return handler.New(&handler.Config{
		Schema:   schema,
		Pretty:   true,
		GraphiQL: graphiql,
	})
}
