package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID            string  `gorm:"primaryKey;type:uuid" json:"id"`
	Name          string  `gorm:"not null" json:"name"`
	Email         string  `gorm:"uniqueIndex;not null" json:"email"`
	Password      string  `gorm:"column:password_hash;not null" json:"-"` // bcrypt hash, never serialized
	Avatar        *string `json:"avatar,omitempty"`
	Points        int     `gorm:"not null;default:0;check:points >= 0" json:"points"`
	AverageRating float64 `gorm:"not null;default:0" json:"average_rating"`
	TotalRatings  int     `gorm:"not null;default:0" json:"total_ratings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}
