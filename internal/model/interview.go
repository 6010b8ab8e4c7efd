package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interview is a generated question set. Owned by UserID, readable by everyone.
type Interview struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id" firestore:"-"`
	Role      string    `json:"role" firestore:"role"`
	Level     string    `json:"level" firestore:"level"`
	Type      string    `json:"type" firestore:"type"`
	TechStack []string  `gorm:"serializer:json" json:"techstack" firestore:"techstack"`
	Questions []string  `gorm:"serializer:json" json:"questions" firestore:"questions"`
	UserID    string    `gorm:"index;not null" json:"userId" firestore:"userId"`
	Finalized bool      `json:"finalized" firestore:"finalized"`
	CreatedAt time.Time `gorm:"index" json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func (i *Interview) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
