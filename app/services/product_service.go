package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/shopql/app/identity"
	"github.com/shashiranjanraj/shopql/app/models"
	"github.com/shashiranjanraj/shopql/pkg/logger"
)

type ProductService struct {
	products ProductStore
}

func NewProductService(products ProductStore) *ProductService {
	return &ProductService{products: products}
}

// Products returns the full catalogue. No identity is required.
func (s *ProductService) Products(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	return products, nil
}

// AddProduct creates a product. Only ADMIN callers may do so; everyone else,
// anonymous included, gets apperr.ErrForbidden before the store is touched.
func (s *ProductService) AddProduct(ctx context.Context, id identity.Identity, name string, price float64) (*models.Product, error) {
	if err := identity.RequireRole(id, models.RoleAdmin); err != nil {
		return nil, err
	}

	p := &models.Product{Name: name, Price: price}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("add product: %w", err)
	}

	logger.WithCtx(ctx).Info("product added", "product_id", p.ID, "by", id.UserID)
	return p, nil
}
