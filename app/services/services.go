// Package services holds the business rules behind every GraphQL field.
// Services receive their stores and the caller's identity explicitly; they
// return apperr errors for expected failures and wrapped errors otherwise.
package services

import (
	"context"

	"github.com/shashiranjanraj/shopql/app/models"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type ProductStore interface {
	All(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
}

type OrderStore interface {
	ForUser(ctx context.Context, userID string) ([]models.Order, error)
	Create(ctx context.Context, o *models.Order) error
}

// PasswordHasher is satisfied by *auth.Hasher.
type PasswordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	Verify(ctx context.Context, plain, digest string) (bool, error)
}

// TokenIssuer is satisfied by *auth.TokenIssuer.
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}
