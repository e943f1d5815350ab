package seeders

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/shopql/app/models"
	"github.com/shashiranjanraj/shopql/app/repositories"
	"github.com/shashiranjanraj/shopql/pkg/logger"
)

var (
	// ErrAdminCredentials is returned when ADMIN_EMAIL or ADMIN_PASSWORD is unset.
	ErrAdminCredentials = errors.New("seeders: ADMIN_EMAIL and ADMIN_PASSWORD are required")

	// ErrEmailTaken is returned when ADMIN_EMAIL already belongs to a
	// non-admin account. Users are never promoted.
	ErrEmailTaken = errors.New("seeders: admin email is registered to a non-admin user")
)

type userStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type passwordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
}

// Admin returns a seeder that creates the ADMIN account. Re-running it is a
// no-op once the admin exists; an email held by a USER fails with
// ErrEmailTaken.
func Admin(users userStore, hasher passwordHasher, email, password string) SeederFunc {
	return func(ctx context.Context) error {
		if email == "" || password == "" {
			return ErrAdminCredentials
		}

		digest, err := hasher.Hash(ctx, password)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}

		err = users.Create(ctx, &models.User{Email: email, Password: digest, Role: models.RoleAdmin})
		if errors.Is(err, repositories.ErrDuplicate) {
			existing, findErr := users.FindByEmail(ctx, email)
			if findErr != nil {
				return fmt.Errorf("look up existing admin: %w", findErr)
			}
			if existing.Role != models.RoleAdmin {
				return fmt.Errorf("%w: %s is %s", ErrEmailTaken, email, existing.Role)
			}
			logger.Info("seeders: admin already exists", "email", email)
			return nil
		}
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}

		logger.Info("seeders: admin created", "email", email)
		return nil
	}
}
