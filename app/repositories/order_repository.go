package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/shopql/app/models"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// ForUser returns the orders owned by userID, oldest first.
func (r *OrderRepository) ForUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Find(&orders).Error
	if err != nil {
		return nil, wrap("list orders", err)
	}
	return orders, nil
}

// Create inserts o. The owning user is referenced by UserID only; the User
// association is never written.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error; err != nil {
		return wrap("create order", err)
	}
	return nil
}
