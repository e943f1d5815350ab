// Package reqid assigns every HTTP request an id, keeps it in the request
// context, and echoes it back in the X-Request-ID response header.
// middleware.Logger reads it so each log line of a request is correlated.
package reqid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header is the HTTP header used to propagate the request id.
const Header = "X-Request-ID"

// maxLen bounds client-supplied ids so they cannot bloat log lines.
const maxLen = 128

type ctxKey struct{}

// New returns a fresh random id.
func New() string { return uuid.NewString() }

// WithValue stores id in ctx.
func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx returns the request id in ctx, or "".
func FromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// Middleware reuses an upstream X-Request-ID when it is present and
// reasonably sized, otherwise generates one.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if id == "" || len(id) > maxLen {
				id = New()
			}

			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), id)))
		})
	}
}
