package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopql/app/models"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// All returns the whole catalogue, oldest first.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.WithContext(ctx).Order("created_at asc, id asc").Find(&products).Error; err != nil {
		return nil, wrap("list products", err)
	}
	return products, nil
}

// Create inserts p and fills in its id.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return wrap("create product", err)
	}
	return nil
}
