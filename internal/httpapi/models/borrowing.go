package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BorrowingStatusActive   = "ACTIVE"
	BorrowingStatusReturned = "RETURNED"
)

// Borrowing links a Book, its lender and its borrower. At most one ACTIVE
// borrowing exists per book at a time.
type Borrowing struct {
	ID         string     `gorm:"primaryKey;type:uuid" json:"id"`
	BookID     string     `gorm:"type:uuid;not null;index" json:"book_id"`
	BorrowerID string     `gorm:"type:uuid;not null;index" json:"borrower_id"`
	LenderID   string     `gorm:"type:uuid;not null;index" json:"lender_id"`
	Status     string     `gorm:"not null;default:'ACTIVE';check:status IN ('ACTIVE','RETURNED')" json:"status"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Associations
	Book     *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Borrower *User `gorm:"foreignKey:BorrowerID" json:"borrower,omitempty"`
	Lender   *User `gorm:"foreignKey:LenderID" json:"lender,omitempty"`
}

func (b *Borrowing) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}

func (Borrowing) TableName() string {
	return "borrowings"
}
