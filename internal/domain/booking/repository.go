package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Page bounds a list query. Offset must be non-negative and Limit positive;
// callers validate before the query reaches the store.
type Page struct {
	Offset int
	Limit  int
}

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// Create persists a new booking. The approved-overlap check and the
	// insert execute as one atomic unit: if an APPROVED booking for the same
	// item overlaps the new window, Create fails with a conflict and nothing
	// is written.
	Create(ctx context.Context, booking *Booking) error

	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindForBooker retrieves bookings requested by the given user, filtered
	// by state against the supplied now, ordered by start descending.
	FindForBooker(ctx context.Context, bookerID uuid.UUID, filter StateFilter, now time.Time, page Page) ([]*Booking, int64, error)

	// FindForOwner retrieves bookings of items owned by the given user,
	// filtered by state against the supplied now, ordered by start descending.
	FindForOwner(ctx context.Context, ownerID uuid.UUID, filter StateFilter, now time.Time, page Page) ([]*Booking, int64, error)

	// HasApprovedOverlap reports whether an APPROVED booking for the item
	// overlaps [start, end] under inclusive bounds.
	HasApprovedOverlap(ctx context.Context, itemID uuid.UUID, start, end time.Time) (bool, error)

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error

	// FindCompletedForBookerAndItem retrieves the booker's APPROVED bookings
	// of the item that ended before now. Used to gate comment creation.
	FindCompletedForBookerAndItem(ctx context.Context, bookerID, itemID uuid.UUID, now time.Time) ([]*Booking, error)

	// FindLastForItem retrieves the item's most recent booking started before
	// now, or nil if there is none.
	FindLastForItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*Booking, error)

	// FindNextForItem retrieves the item's earliest booking starting after
	// now, or nil if there is none.
	FindNextForItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*Booking, error)
}
