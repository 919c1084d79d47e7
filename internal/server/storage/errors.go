package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates that a user with this email already exists
	// Email uniqueness is case-insensitive and enforced at the store
	ErrEmailTaken = errors.New("user already exists")
)
