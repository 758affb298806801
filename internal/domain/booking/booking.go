package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/lendly/service-booking/internal/domain"
)

// Booking is the aggregate root for the reservation domain. A booking covers
// the inclusive time window [start, end] of a single item, starts its life
// as WAITING and is decided at most once by the item's owner.
type Booking struct {
	id     uuid.UUID
	item   ItemRef
	booker UserRef
	start  time.Time
	end    time.Time
	status Status

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking aggregate with status=WAITING.
//
// now is the single timestamp snapshot of the enclosing operation; every
// temporal rule in this constructor is evaluated against it, never against a
// re-read clock. Rules that need store access (the approved-overlap check)
// are enforced by the repository at insert time.
func NewBooking(item ItemRef, booker UserRef, start, end, now time.Time) (*Booking, error) {
	if item.ID == uuid.Nil {
		return nil, domain.NewValidationError(domain.ReasonInvalidInput, "item ID is required")
	}
	if booker.ID == uuid.Nil {
		return nil, domain.NewValidationError(domain.ReasonInvalidInput, "booker ID is required")
	}
	if booker.ID == item.OwnerID {
		return nil, domain.NewForbiddenError(domain.ReasonSelfBooking,
			"owners cannot book their own items")
	}
	if !item.Available {
		return nil, domain.NewConflictError(domain.ReasonItemUnavailable,
			"item is not available for booking")
	}
	if !start.After(now) || !end.After(now) {
		return nil, domain.NewValidationError(domain.ReasonInvalidTimeWindow,
			"booking window must lie strictly in the future")
	}
	if start.After(end) {
		return nil, domain.NewValidationError(domain.ReasonInvalidTimeWindow,
			"booking end must not precede its start")
	}
	if start.Equal(end) {
		return nil, domain.NewValidationError(domain.ReasonInvalidTimeWindow,
			"booking window must not be empty")
	}

	return &Booking{
		id:        uuid.New(),
		item:      item,
		booker:    booker,
		start:     start,
		end:       end,
		status:    StatusWaiting,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	item ItemRef,
	booker UserRef,
	start, end time.Time,
	status Status,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		item:      item,
		booker:    booker,
		start:     start,
		end:       end,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// Item returns the snapshot of the reserved item.
func (b *Booking) Item() ItemRef { return b.item }

// Booker returns the snapshot of the requesting user.
func (b *Booking) Booker() UserRef { return b.booker }

// Start returns the inclusive start of the booking window.
func (b *Booking) Start() time.Time { return b.start }

// End returns the inclusive end of the booking window.
func (b *Booking) End() time.Time { return b.end }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// VisibleTo reports whether the given user may read this booking: only the
// booker and the item's owner are authorized.
func (b *Booking) VisibleTo(userID uuid.UUID) bool {
	return b.booker.ID == userID || b.item.OwnerID == userID
}

// Overlaps reports whether the booking window shares at least one instant
// with [start, end] under inclusive bounds.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return !b.start.After(end) && !b.end.Before(start)
}

// --- Behavior ---

// Approve transitions the booking from WAITING to APPROVED.
func (b *Booking) Approve(now time.Time) error {
	return b.decide(StatusApproved, now)
}

// Reject transitions the booking from WAITING to REJECTED.
func (b *Booking) Reject(now time.Time) error {
	return b.decide(StatusRejected, now)
}

func (b *Booking) decide(target Status, now time.Time) error {
	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	b.status = target
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
}
