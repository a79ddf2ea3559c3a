package models

import (
	"time"
)

type Todo struct {
	ID      string `gorm:"primaryKey"`
	UserID  string `gorm:"index;not null"` // Owning account, scopes every query
	Heading string `gorm:"not null"`
	Task    string

	Completed bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
