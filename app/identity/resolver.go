package identity

import (
	"net/http"

	"github.com/shashiranjanraj/shopql/app/models"
	"github.com/shashiranjanraj/shopql/pkg/auth"
	"github.com/shashiranjanraj/shopql/pkg/logger"
)

// Verifier checks a bearer token. *auth.TokenIssuer satisfies it.
type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Resolver turns an Authorization header into an Identity.
type Resolver struct {
	verifier Verifier
}

// NewResolver returns a Resolver backed by v.
func NewResolver(v Verifier) *Resolver {
	return &Resolver{verifier: v}
}

// Resolve verifies header and returns the authenticated identity, or
// Anonymous when verification fails for any reason. The header value is used
// as-is; no "Bearer " prefix is stripped. Failures are logged at DEBUG.
func (r *Resolver) Resolve(header string) Identity {
	id, err := r.resolve(header)
	if err != nil && header != "" {
		logger.Debug("identity: token rejected", "error", err)
	}
	return id
}

func (r *Resolver) resolve(header string) (Identity, error) {
	claims, err := r.verifier.Verify(header)
	if err != nil {
		return Anonymous(), err
	}

	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return Anonymous(), err
	}
	return Authenticated(claims.UserID, role), nil
}

// Middleware resolves the identity once per request and stores it in the
// request context. Verification failures are logged and swallowed; the
// request continues as Anonymous.
func (r *Resolver) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			header := req.Header.Get("Authorization")

			id, err := r.resolve(header)
			if err != nil && header != "" {
				logger.WithCtx(req.Context()).Debug("identity: token rejected", "error", err)
			}

			next.ServeHTTP(w, req.WithContext(WithContext(req.Context(), id)))
		})
	}
}
