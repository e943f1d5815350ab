package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/shopql/pkg/workerpool"
)

// DefaultCost is the bcrypt work factor used for every stored password.
const DefaultCost = 10

// Hasher produces and checks bcrypt digests. When a pool is attached, the
// bcrypt work runs on it and callers wait on their context.
type Hasher struct {
	cost int
	pool *workerpool.Pool
}

// NewHasher returns a Hasher with the given cost. pool may be nil, in which
// case hashing runs on the calling goroutine.
func NewHasher(cost int, pool *workerpool.Pool) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost, pool: pool}
}

// Hash returns a salted bcrypt digest of plain.
func (h *Hasher) Hash(ctx context.Context, plain string) (string, error) {
	var (
		digest []byte
		err    error
	)
	if runErr := h.run(ctx, func() {
		digest, err = bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	}); runErr != nil {
		return "", runErr
	}
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plain matches digest. A mismatch or a malformed
// digest is simply false; the error is reserved for cancellation.
func (h *Hasher) Verify(ctx context.Context, plain, digest string) (bool, error) {
	var ok bool
	if err := h.run(ctx, func() {
		ok = bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
	}); err != nil {
		return false, err
	}
	return ok, nil
}

func (h *Hasher) run(ctx context.Context, fn func()) error {
	if h.pool == nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn()
		return nil
	}
	if err := h.pool.Do(ctx, fn); err != nil {
		return fmt.Errorf("auth: hash worker: %w", err)
	}
	return nil
}
