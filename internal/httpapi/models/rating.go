package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Rating struct {
	ID      string  `gorm:"primaryKey;type:uuid" json:"id"`
	RaterID string  `gorm:"type:uuid;not null;index" json:"rater_id"`
	RatedID string  `gorm:"type:uuid;not null;index" json:"rated_id"`
	Score   int     `gorm:"not null;check:score >= 1 AND score <= 5" json:"score"`
	Comment *string `json:"comment,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Associations
	Rater *User `gorm:"foreignKey:RaterID;constraint:OnDelete:CASCADE;" json:"rater,omitempty"`
	Rated *User `gorm:"foreignKey:RatedID;constraint:OnDelete:CASCADE;" json:"rated,omitempty"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (Rating) TableName() string {
	return "ratings"
}
