// Package graph declares the shop GraphQL schema and binds each root field
// to exactly one service method.
package graph

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/shopql/app/identity"
	"github.com/shashiranjanraj/shopql/app/models"
	gqlhttp "github.com/shashiranjanraj/shopql/pkg/graphql"
)

// AuthService is satisfied by *services.AuthService.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// ProductService is satisfied by *services.ProductService.
type ProductService interface {
	Products(ctx context.Context) ([]models.Product, error)
	AddProduct(ctx context.Context, id identity.Identity, name string, price float64) (*models.Product, error)
}

// OrderService is satisfied by *services.OrderService.
type OrderService interface {
	OrderHistory(ctx context.Context, id identity.Identity) ([]models.Order, error)
	AddToCart(ctx context.Context, id identity.Identity, products []string, totalPrice float64) (*models.Order, error)
}

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"email": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"role": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				switch u := p.Source.(type) {
				case *models.User:
					return u.Role.String(), nil
				case models.User:
					return u.Role.String(), nil
				}
				return nil, nil
			},
		},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"price": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"products":   &graphql.Field{Type: nonNullList(graphql.String)},
		"totalPrice": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
	},
})

func nonNullList(of graphql.Type) graphql.Type {
	return graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(of)))
}

func requiredArg(t graphql.Input) *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.NewNonNull(t)}
}

// NewSchema wires the services into the shop schema.
func NewSchema(auth AuthService, products ProductService, orders OrderService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: nonNullList(productType),
				Resolve: resolve("products", func(p graphql.ResolveParams) (interface{}, error) {
					return products.Products(p.Context)
				}),
			},
			"orderHistory": &graphql.Field{
				Type: nonNullList(orderType),
				Resolve: resolve("orderHistory", func(p graphql.ResolveParams) (interface{}, error) {
					return orders.OrderHistory(p.Context, identity.FromContext(p.Context))
				}),
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"signUp": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Args: graphql.FieldConfigArgument{
					"email":    requiredArg(graphql.String),
					"password": requiredArg(graphql.String),
				},
				Resolve: resolve("signUp", func(p graphql.ResolveParams) (interface{}, error) {
					return auth.SignUp(p.Context, p.Args["email"].(string), p.Args["password"].(string))
				}),
			},
			"login": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Args: graphql.FieldConfigArgument{
					"email":    requiredArg(graphql.String),
					"password": requiredArg(graphql.String),
				},
				Resolve: resolve("login", func(p graphql.ResolveParams) (interface{}, error) {
					return auth.Login(p.Context, p.Args["email"].(string), p.Args["password"].(string))
				}),
			},
			"addProduct": &graphql.Field{
				Type: graphql.NewNonNull(productType),
				Args: graphql.FieldConfigArgument{
					"name":  requiredArg(graphql.String),
					"price": requiredArg(graphql.Float),
				},
				Resolve: resolve("addProduct", func(p graphql.ResolveParams) (interface{}, error) {
					return products.AddProduct(p.Context, identity.FromContext(p.Context),
						p.Args["name"].(string), p.Args["price"].(float64))
				}),
			},
			"addToCart": &graphql.Field{
				Type: graphql.NewNonNull(orderType),
				Args: graphql.FieldConfigArgument{
					"products":   requiredArg(graphql.NewList(graphql.NewNonNull(graphql.String))),
					"totalPrice": requiredArg(graphql.Float),
				},
				Resolve: resolve("addToCart", func(p graphql.ResolveParams) (interface{}, error) {
					return orders.AddToCart(p.Context, identity.FromContext(p.Context),
						stringList(p.Args["products"]), p.Args["totalPrice"].(float64))
				}),
			},
		},
	})

	return gqlhttp.NewSchema(query, mutation, userType)
}

func stringList(v interface{}) []string {
	items, _ := v.([]interface{})
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
