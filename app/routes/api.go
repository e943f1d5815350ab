// Package routes is the single place where HTTP paths are declared.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/shopql/pkg/router"
)

// Handlers are the endpoints RegisterAPI mounts.
type Handlers struct {
	GraphQL http.Handler
	Health  http.Handler
	Metrics http.Handler

	// Identity runs in front of GraphQL only.
	Identity router.Middleware
}

// RegisterAPI mounts the public routes. Nil handlers answer 404, which lets
// route:list build the table without a database.
func RegisterAPI(r *router.Router, h Handlers) {
	var gqlMiddleware []router.Middleware
	if h.Identity != nil {
		gqlMiddleware = append(gqlMiddleware, h.Identity)
	}

	r.Handle([]string{http.MethodGet, http.MethodPost}, "/graphql", "graphql", orNotFound(h.GraphQL), gqlMiddleware...)
	r.Get("/healthz", "health", orNotFound(h.Health))
	r.Get("/metrics", "metrics", orNotFound(h.Metrics))
}

func orNotFound(h http.Handler) http.Handler {
	if h == nil {
		return http.NotFoundHandler()
	}
	return h
}
