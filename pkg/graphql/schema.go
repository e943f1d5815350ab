// Package graphql serves a graphql-go schema over HTTP.
package graphql

import (
	"github.com/graphql-go/graphql"
)

// NewSchema builds a schema from its root objects. mutation may be nil.
// types lists objects that no field returns but that clients should still
// see through introspection.
func NewSchema(query, mutation *graphql.Object, types ...graphql.Type) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
		Types:    types,
	})
}
