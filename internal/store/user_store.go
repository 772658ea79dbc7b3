package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/wolfeidau/ndrweb/internal/models"
)

// UserStore defines the interface for user account storage operations.
type UserStore interface {
	// Create creates a new user.
	// Returns ErrUserAlreadyExists if the username or email is already taken.
	Create(ctx context.Context, user *models.User) error

	// Get retrieves a user by ID.
	// Returns ErrUserNotFound if the user doesn't exist.
	Get(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by email address, compared case-insensitively.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Update updates an existing user.
	// Returns ErrUserNotFound if the user doesn't exist.
	Update(ctx context.Context, user *models.User) error

	// List returns all users ordered by username.
	List(ctx context.Context) ([]*models.User, error)
}
