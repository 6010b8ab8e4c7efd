package model

import "time"

// User mirrors the profile stored alongside the auth provider's account. ID is the auth uid.
type User struct {
	ID        string    `gorm:"primaryKey;size:128" json:"id" firestore:"-"`
	FullName  string    `json:"fullName" firestore:"fullName"`
	Email     string    `gorm:"index" json:"email" firestore:"email"`
	Phone     string    `json:"phone,omitempty" firestore:"phone"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}
