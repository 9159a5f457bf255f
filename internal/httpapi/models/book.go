package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book status values. A book starts AVAILABLE and flips to BORROWED for the
// lifetime of its single active borrowing.
const (
	BookStatusAvailable = "AVAILABLE"
	BookStatusBorrowed  = "BORROWED"
)

type Book struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string  `gorm:"not null" json:"title"`
	Author      string  `gorm:"not null" json:"author"`
	Description *string `json:"description,omitempty"`
	CoverImage  *string `json:"cover_image,omitempty"`
	Status      string  `gorm:"not null;default:'AVAILABLE';check:status IN ('AVAILABLE','BORROWED')" json:"status"`
	OwnerID     string  `gorm:"type:uuid;not null;index" json:"owner_id"`

	CreatedAt time.Time `json:"created_at"`

	// Associations
	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (book *Book) BeforeCreate(tx *gorm.DB) (err error) {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	return
}

func (Book) TableName() string {
	return "books"
}
