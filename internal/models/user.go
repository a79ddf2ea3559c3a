package models

import (
	"time"
)

type User struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"` // Login identifier, unique per account
	PasswordHash string `gorm:"not null"`             // argon2id PHC string, never exposed

	CreatedAt time.Time
	UpdatedAt time.Time
}
