package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that can log in. Users are created on signup and never
// updated or deleted afterwards.
type User struct {
	ID        string    `gorm:"primaryKey;size:36"            json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null"             json:"-"` // bcrypt digest
	Role      Role      `gorm:"size:16;not null"              json:"role"`
	CreatedAt time.Time `json:"-"`
}

// BeforeCreate assigns the id and rejects unknown roles.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if !u.Role.Valid() {
		_, err := ParseRole(string(u.Role))
		return err
	}
	return nil
}
