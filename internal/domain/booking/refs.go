package booking

import "github.com/google/uuid"

// ItemRef is an immutable snapshot of the item a booking reserves. The item
// itself is owned by the item module; the booking only needs identity,
// ownership and availability at decision points.
type ItemRef struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Available bool      `json:"available"`
}

// UserRef is an immutable snapshot of the user who requested the booking.
type UserRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
