package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for user aggregates.
type Repository interface {
	// FindByID retrieves a user by their unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// ListAll retrieves all users, ordered by creation.
	ListAll(ctx context.Context) ([]*User, error)

	// Save persists a new user. A duplicate email fails with a conflict.
	Save(ctx context.Context, user *User) error

	// Update persists changes to an existing user.
	Update(ctx context.Context, user *User) error

	// Delete removes a user by their identifier.
	Delete(ctx context.Context, id uuid.UUID) error
}
