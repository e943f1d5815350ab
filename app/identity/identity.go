// Package identity models who is making a request.
//
// An Identity is resolved once per request from the Authorization header
// and then handed explicitly to every service call. It is either
// authenticated (UserID set, Role known) or anonymous (zero value).
package identity

import (
	"context"

	"github.com/shashiranjanraj/shopql/app/apperr"
	"github.com/shashiranjanraj/shopql/app/models"
)

// Identity is the resolved caller of a request.
type Identity struct {
	UserID string
	Role   models.Role
}

// Anonymous returns the identity used when no valid token was presented.
func Anonymous() Identity { return Identity{} }

// Authenticated builds an identity for a verified user.
func Authenticated(userID string, role models.Role) Identity {
	return Identity{UserID: userID, Role: role}
}

// IsAuthenticated reports whether a user was resolved.
func (i Identity) IsAuthenticated() bool { return i.UserID != "" }

// HasRole reports whether the identity is authenticated with one of roles.
func (i Identity) HasRole(roles ...models.Role) bool {
	if !i.IsAuthenticated() {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// RequireAuthenticated fails with apperr.ErrUnauthorized for anonymous callers.
func RequireAuthenticated(i Identity) error {
	if !i.IsAuthenticated() {
		return apperr.ErrUnauthorized
	}
	return nil
}

// RequireRole fails with apperr.ErrForbidden unless i holds one of roles.
// Anonymous callers are Forbidden too.
func RequireRole(i Identity, roles ...models.Role) error {
	if !i.HasRole(roles...) {
		return apperr.ErrForbidden
	}
	return nil
}

type ctxKey struct{}

// WithContext stores id in ctx.
func WithContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored in ctx, or Anonymous.
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(ctxKey{}).(Identity); ok {
		return id
	}
	return Anonymous()
}
