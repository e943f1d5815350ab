package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNegativePrice is returned when a product is saved with a price below zero.
var ErrNegativePrice = errors.New("models: price must not be negative")

// Product is a catalogue entry. Products are immutable once created.
type Product struct {
	ID        string    `gorm:"primaryKey;size:36"       json:"id"`
	Name      string    `gorm:"size:255;not null;index"  json:"name"`
	Price     float64   `gorm:"not null"                 json:"price"`
	CreatedAt time.Time `gorm:"index"                    json:"-"`
}

// BeforeCreate assigns the id and enforces a non-negative price.
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}
