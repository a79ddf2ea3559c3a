package store

import "errors"

var (
	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")

	// ErrEmailTaken is returned when an account with the email already exists
	ErrEmailTaken = errors.New("email already registered")
)
