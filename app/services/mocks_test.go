package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shashiranjanraj/shopql/app/models"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) All(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]models.Product)
	return p, args.Error(1)
}

func (m *MockProductStore) Create(ctx context.Context, p *models.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) ForUser(ctx context.Context, userID string) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	o, _ := args.Get(0).([]models.Order)
	return o, args.Error(1)
}

func (m *MockOrderStore) Create(ctx context.Context, o *models.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
