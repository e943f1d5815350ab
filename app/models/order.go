package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is a placed cart. Products holds raw product ids exactly as the client
// sent them; they are not checked against the catalogue, and TotalPrice is
// the client-supplied figure, not a server-side sum.
type Order struct {
	ID         string    `gorm:"primaryKey;size:36"           json:"id"`
	UserID     string    `gorm:"size:36;not null;index"       json:"-"`
	User       User      `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Products   []string  `gorm:"serializer:json;not null"     json:"products"`
	TotalPrice float64   `gorm:"not null"                     json:"totalPrice"`
	CreatedAt  time.Time `gorm:"index"                        json:"-"`
}

// BeforeCreate assigns the id.
func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Products == nil {
		o.Products = []string{}
	}
	return nil
}
