package services

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// callers never learn which
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an email that already
	// has an account
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound is returned when a verified token's subject no
	// longer maps to an account
	ErrUserNotFound = errors.New("user not found")

	// ErrTodoNotFound covers both an unknown todo id and a todo owned by
	// someone else; callers never learn which
	ErrTodoNotFound = errors.New("todo not found")

	// ErrNoFieldsToUpdate is returned when an update request carries no
	// changes
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)
