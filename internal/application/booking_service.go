package application

import (
	"fmt"
	"time"

	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lendly/service-booking/internal/domain"
	bookingDomain "github.com/lendly/service-booking/internal/domain/booking"
	itemDomain "github.com/lendly/service-booking/internal/domain/item"
	userDomain "github.com/lendly/service-booking/internal/domain/user"
)

// CreateBookingRequest holds the data needed to request a new booking.
type CreateBookingRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// ItemSummaryDTO is the item part of a booking response.
type ItemSummaryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// UserSummaryDTO is the booker part of a booking response.
type UserSummaryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID     uuid.UUID      `json:"id"`
	Start  time.Time      `json:"start"`
	End    time.Time      `json:"end"`
	Item   ItemSummaryDTO `json:"item"`
	Booker UserSummaryDTO `json:"booker"`
	Status string         `json:"status"`
}

// BookingService is the application service orchestrating booking use cases.
//
// Every operation takes exactly one clock snapshot via now() and feeds it
// through the domain rules and store predicates, so a request cannot observe
// two different "now" values.
type BookingService struct {
	bookings bookingDomain.Repository
	items    itemDomain.Repository
	users    userDomain.Repository
	logger   *zap.Logger
	now      func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	items itemDomain.Repository,
	users userDomain.Repository,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		items:    items,
		users:    users,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateBooking requests a reservation of an item for [start, end]. The new
// booking starts WAITING; only the item's owner can decide it.
func (s *BookingService) CreateBooking(ctx context.Context, bookerID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	itm, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	booker, err := s.users.FindByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	bk, err := bookingDomain.NewBooking(
		bookingDomain.ItemRef{
			ID:        itm.ID(),
			OwnerID:   itm.OwnerID(),
			Name:      itm.Name(),
			Available: itm.Available(),
		},
		bookingDomain.UserRef{ID: booker.ID(), Name: booker.Name()},
		req.Start,
		req.End,
		now,
	)
	if err != nil {
		return nil, err
	}

	// The approved-overlap check runs inside the store transaction together
	// with the insert, so two concurrent requests for the same window cannot
	// both pass it.
	if err := s.bookings.Create(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("item_id", itm.ID().String()),
		zap.String("booker_id", bookerID.String()),
	)

	result := toBookingDTO(bk)
	return &result, nil
}

// DecideBooking lets the item's owner approve or reject a WAITING booking.
// A decision is final; repeating or reversing it fails.
func (s *BookingService) DecideBooking(ctx context.Context, bookingID, ownerID uuid.UUID, approve bool) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	itm, err := s.items.FindByID(ctx, bk.Item().ID)
	if err != nil {
		return nil, err
	}
	if !itm.IsOwnedBy(ownerID) {
		return nil, domain.NewForbiddenError(domain.ReasonNotItemOwner,
			fmt.Sprintf("user %s does not own item %s", ownerID, itm.ID()))
	}

	now := s.now()
	if approve {
		err = bk.Approve(now)
	} else {
		err = bk.Reject(now)
	}
	if err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking decided",
		zap.String("booking_id", bk.ID().String()),
		zap.String("status", bk.Status().String()),
		zap.String("owner_id", ownerID.String()),
	)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking, visible only to its booker or the
// owner of the booked item.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID) (*BookingDTO, error) {
	if _, err := s.users.FindByID(ctx, requesterID); err != nil {
		return nil, err
	}

	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.VisibleTo(requesterID) {
		return nil, domain.NewForbiddenError(domain.ReasonNotAuthorized,
			fmt.Sprintf("user %s is neither the booker nor the item owner of booking %s", requesterID, bookingID))
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// ListBookerBookings retrieves a page of the user's own booking requests,
// partitioned by the given state token and ordered by start descending.
func (s *BookingService) ListBookerBookings(ctx context.Context, bookerID uuid.UUID, state string, offset, limit int) ([]BookingDTO, int64, error) {
	filter, page, err := s.prepareListQuery(ctx, bookerID, state, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	bookings, total, err := s.bookings.FindForBooker(ctx, bookerID, filter, s.now(), page)
	if err != nil {
		return nil, 0, err
	}
	return toBookingDTOs(bookings), total, nil
}

// ListOwnerBookings retrieves a page of bookings of the user's items,
// partitioned by the given state token and ordered by start descending.
func (s *BookingService) ListOwnerBookings(ctx context.Context, ownerID uuid.UUID, state string, offset, limit int) ([]BookingDTO, int64, error) {
	filter, page, err := s.prepareListQuery(ctx, ownerID, state, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	bookings, total, err := s.bookings.FindForOwner(ctx, ownerID, filter, s.now(), page)
	if err != nil {
		return nil, 0, err
	}
	return toBookingDTOs(bookings), total, nil
}

// prepareListQuery validates the state token and pagination before any store
// access, then confirms the acting user exists.
func (s *BookingService) prepareListQuery(ctx context.Context, actorID uuid.UUID, state string, offset, limit int) (bookingDomain.StateFilter, bookingDomain.Page, error) {
	filter, err := bookingDomain.ParseStateFilter(state)
	if err != nil {
		return "", bookingDomain.Page{}, err
	}
	if offset < 0 {
		return "", bookingDomain.Page{}, domain.NewValidationError(domain.ReasonInvalidPagination,
			"offset must not be negative")
	}
	if limit <= 0 {
		return "", bookingDomain.Page{}, domain.NewValidationError(domain.ReasonInvalidPagination,
			"limit must be positive")
	}
	if _, err := s.users.FindByID(ctx, actorID); err != nil {
		return "", bookingDomain.Page{}, err
	}
	return filter, bookingDomain.Page{Offset: offset, Limit: limit}, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:     bk.ID(),
		Start:  bk.Start(),
		End:    bk.End(),
		Item:   ItemSummaryDTO{ID: bk.Item().ID, Name: bk.Item().Name},
		Booker: UserSummaryDTO{ID: bk.Booker().ID, Name: bk.Booker().Name},
		Status: bk.Status().String(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}
