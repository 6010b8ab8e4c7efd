package repository

import (
	"errors"

	"github.com/lshigami/IntelliHire/internal/model"
	"gorm.io/gorm"
)

func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Interviews: NewInterviewRepository(db),
		Feedback:   NewFeedbackRepository(db),
		Users:      NewUserRepository(db),
	}
}

// AutoMigrate creates or updates the tables behind the gorm backend.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Interview{},
		&model.Feedback{},
		&model.User{},
	)
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
