package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/shopql/app/apperr"
	"github.com/shashiranjanraj/shopql/app/models"
	"github.com/shashiranjanraj/shopql/app/repositories"
	"github.com/shashiranjanraj/shopql/pkg/logger"
)

type AuthService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// SignUp registers a USER and returns a token for it. The store's unique
// index on email is the only duplicate check.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (string, error) {
	digest, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return "", fmt.Errorf("signup: %w", err)
	}

	user := &models.User{Email: email, Password: digest, Role: models.RoleUser}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return "", apperr.ErrDuplicateEmail
		}
		return "", fmt.Errorf("signup: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Role.String())
	if err != nil {
		return "", fmt.Errorf("signup: %w", err)
	}

	logger.WithCtx(ctx).Info("user signed up", "user_id", user.ID)
	return token, nil
}

// Login returns a token when email and password match a stored user. An
// unknown email and a wrong password fail with the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", apperr.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, password, user.Password)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if !ok {
		return "", apperr.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role.String())
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return token, nil
}
