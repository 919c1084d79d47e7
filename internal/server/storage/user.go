package storage

import (
	"context"

	"github.com/nethra/sentinel/internal/models"
)

// UserStorage defines interface for user data persistence
//
// Profile fields and the password hash are mutated through separate
// methods: UpdateUser never touches the hash, UpdatePassword touches
// nothing else. Callers hash the password before it reaches the store.
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrEmailTaken if the email is already registered
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by email (case-insensitive)
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateUser updates profile fields (name, email, avatar)
	// Returns ErrUserNotFound if user doesn't exist,
	// ErrEmailTaken if the new email belongs to another user
	UpdateUser(ctx context.Context, user *models.User) error

	// UpdatePassword replaces the stored password hash
	// Returns ErrUserNotFound if user doesn't exist
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// DeleteUser deletes user by ID
	// Returns ErrUserNotFound if user doesn't exist
	DeleteUser(ctx context.Context, userID string) error

	// ListUsers returns all users ordered by creation time
	ListUsers(ctx context.Context) ([]*models.User, error)
}
