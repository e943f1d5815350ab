package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopql/app/models"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts u. A taken email yields ErrDuplicate, decided by the
// unique index alone.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return wrap("create user", err)
	}
	return nil
}

// FindByEmail looks a user up by exact email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&u).Error; err != nil {
		return nil, wrap("find user by email", err)
	}
	return &u, nil
}

// FindByID looks a user up by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		return nil, wrap("find user by id", err)
	}
	return &u, nil
}

// wrap translates err and adds op context while keeping the sentinels
// reachable through errors.Is.
func wrap(op string, err error) error {
	return fmt.Errorf("repositories: %s: %w", op, translate(err))
}
