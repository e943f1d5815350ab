package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/shopql/app/identity"
	"github.com/shashiranjanraj/shopql/app/models"
	"github.com/shashiranjanraj/shopql/pkg/logger"
)

type OrderService struct {
	orders OrderStore
}

func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{orders: orders}
}

// OrderHistory returns the caller's orders.
func (s *OrderService) OrderHistory(ctx context.Context, id identity.Identity) ([]models.Order, error) {
	if err := identity.RequireAuthenticated(id); err != nil {
		return nil, err
	}

	orders, err := s.orders.ForUser(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	return orders, nil
}

// AddToCart places an order for the caller. Product ids are stored as given
// and totalPrice is trusted; neither is checked against the catalogue.
func (s *OrderService) AddToCart(ctx context.Context, id identity.Identity, products []string, totalPrice float64) (*models.Order, error) {
	if err := identity.RequireAuthenticated(id); err != nil {
		return nil, err
	}

	o := &models.Order{
		UserID:     id.UserID,
		Products:   append([]string{}, products...),
		TotalPrice: totalPrice,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	logger.WithCtx(ctx).Info("order placed", "order_id", o.ID, "user_id", id.UserID, "items", len(o.Products))
	return o, nil
}
