package userRepo

import (
	"context"
	"errors"

	"medischedule/models"
)

var (
	// ErrUserNotFound is returned when no record matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when an email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines methods for user directory access.
type UserRepository interface {
	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*models.UserRecord, error)
	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id string) (*models.UserRecord, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.UserRecord) error
}
