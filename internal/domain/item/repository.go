package item

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for item aggregates.
type Repository interface {
	// FindByID retrieves an item by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByOwnerID retrieves all items of an owner, ordered by creation.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*Item, error)

	// SearchByText retrieves available items whose name or description
	// contains the given text, case-insensitively.
	SearchByText(ctx context.Context, text string) ([]*Item, error)

	// Save persists a new item.
	Save(ctx context.Context, item *Item) error

	// Update persists changes to an existing item with optimistic locking.
	Update(ctx context.Context, item *Item) error

	// Delete removes an item by its identifier.
	Delete(ctx context.Context, id uuid.UUID) error
}
