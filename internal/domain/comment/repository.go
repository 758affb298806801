package comment

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for comments.
type Repository interface {
	// Save persists a new comment.
	Save(ctx context.Context, comment *Comment) error

	// FindByItemID retrieves all comments on an item, newest first.
	FindByItemID(ctx context.Context, itemID uuid.UUID) ([]*Comment, error)
}
