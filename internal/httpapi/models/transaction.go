package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TransactionTypeDonation  = "DONATION"
	TransactionTypeBorrowing = "BORROWING"
)

// Transaction is an append-only ledger entry: a signed point movement tied
// to a donation or borrowing event. Rows are never updated or deleted; the
// sum of a user's entries is the event-sourced view of their balance.
type Transaction struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	Type        string  `gorm:"not null;check:type IN ('DONATION','BORROWING')" json:"type"`
	Points      int     `gorm:"not null" json:"points"`
	UserID      string  `gorm:"type:uuid;not null;index" json:"user_id"`
	BookID      *string `gorm:"type:uuid;index" json:"book_id,omitempty"`
	Description string  `gorm:"not null" json:"description"`

	CreatedAt time.Time `json:"created_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return
}

func (Transaction) TableName() string {
	return "transactions"
}
