package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lendly/service-booking/internal/domain"
	bookingDomain "github.com/lendly/service-booking/internal/domain/booking"
	commentDomain "github.com/lendly/service-booking/internal/domain/comment"
	itemDomain "github.com/lendly/service-booking/internal/domain/item"
	userDomain "github.com/lendly/service-booking/internal/domain/user"
)

// CreateItemRequest holds the data needed to list a new item.
type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
}

// UpdateItemRequest holds a partial item update. Absent fields stay unchanged.
type UpdateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
}

// ItemDTO is the response representation of an item.
type ItemDTO struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
}

// BookingBriefDTO is the compact booking shape embedded in item views.
type BookingBriefDTO struct {
	ID       uuid.UUID `json:"id"`
	BookerID uuid.UUID `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   string    `json:"status"`
}

// CommentDTO is the response representation of a comment.
type CommentDTO struct {
	ID         uuid.UUID `json:"id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// ItemDetailDTO is an item with its comments and, for the owner, the
// temporal neighbors of "now" among its bookings.
type ItemDetailDTO struct {
	ItemDTO
	LastBooking *BookingBriefDTO `json:"last_booking,omitempty"`
	NextBooking *BookingBriefDTO `json:"next_booking,omitempty"`
	Comments    []CommentDTO     `json:"comments"`
}

// ItemService is the application service for item listings.
type ItemService struct {
	items    itemDomain.Repository
	users    userDomain.Repository
	bookings bookingDomain.Repository
	comments commentDomain.Repository
	logger   *zap.Logger
	now      func() time.Time
}

// NewItemService creates a new ItemService.
func NewItemService(
	items itemDomain.Repository,
	users userDomain.Repository,
	bookings bookingDomain.Repository,
	comments commentDomain.Repository,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		users:    users,
		bookings: bookings,
		comments: comments,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateItem lists a new item owned by the caller.
func (s *ItemService) CreateItem(ctx context.Context, ownerID uuid.UUID, req CreateItemRequest) (*ItemDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	itm, err := itemDomain.NewItem(ownerID, req.Name, req.Description, *req.Available)
	if err != nil {
		return nil, domain.NewValidationError(domain.ReasonInvalidInput, err.Error())
	}
	if err := s.items.Save(ctx, itm); err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	s.logger.Info("item created",
		zap.String("item_id", itm.ID().String()),
		zap.String("owner_id", ownerID.String()),
	)

	result := toItemDTO(itm)
	return &result, nil
}

// UpdateItem applies a partial update; only the owner may change a listing.
func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	itm, err := s.CheckOwnership(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}

	itm.Update(req.Name, req.Description, req.Available)
	if err := s.items.Update(ctx, itm); err != nil {
		return nil, err
	}

	result := toItemDTO(itm)
	return &result, nil
}

// DeleteItem removes a listing; only the owner may delete it.
func (s *ItemService) DeleteItem(ctx context.Context, ownerID, itemID uuid.UUID) error {
	if _, err := s.CheckOwnership(ctx, ownerID, itemID); err != nil {
		return err
	}
	return s.items.Delete(ctx, itemID)
}

// GetItem retrieves an item with its comments. The owner additionally sees
// the item's last and next booking relative to a single "now" snapshot.
func (s *ItemService) GetItem(ctx context.Context, itemID, requesterID uuid.UUID) (*ItemDetailDTO, error) {
	itm, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	detail := ItemDetailDTO{ItemDTO: toItemDTO(itm)}
	if itm.IsOwnedBy(requesterID) {
		if err := s.attachBookingNeighbors(ctx, &detail, s.now()); err != nil {
			return nil, err
		}
	}

	comments, err := s.comments.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	detail.Comments = toCommentDTOs(comments)
	return &detail, nil
}

// GetOwnerItems retrieves the caller's listings with booking neighbors.
func (s *ItemService) GetOwnerItems(ctx context.Context, ownerID uuid.UUID) ([]ItemDetailDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.items.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	details := make([]ItemDetailDTO, len(items))
	for i, itm := range items {
		details[i] = ItemDetailDTO{ItemDTO: toItemDTO(itm)}
		if err := s.attachBookingNeighbors(ctx, &details[i], now); err != nil {
			return nil, err
		}
		comments, err := s.comments.FindByItemID(ctx, itm.ID())
		if err != nil {
			return nil, err
		}
		details[i].Comments = toCommentDTOs(comments)
	}
	return details, nil
}

// SearchItems retrieves available items matching the text. A blank query
// returns an empty result without touching the store.
func (s *ItemService) SearchItems(ctx context.Context, text string) ([]ItemDTO, error) {
	if strings.TrimSpace(text) == "" {
		return []ItemDTO{}, nil
	}

	items, err := s.items.SearchByText(ctx, text)
	if err != nil {
		return nil, err
	}

	dtos := make([]ItemDTO, len(items))
	for i, itm := range items {
		dtos[i] = toItemDTO(itm)
	}
	return dtos, nil
}

// CheckOwnership confirms the item exists and belongs to the given user.
func (s *ItemService) CheckOwnership(ctx context.Context, ownerID, itemID uuid.UUID) (*itemDomain.Item, error) {
	itm, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !itm.IsOwnedBy(ownerID) {
		return nil, domain.NewForbiddenError(domain.ReasonNotItemOwner,
			fmt.Sprintf("user %s does not own item %s", ownerID, itemID))
	}
	return itm, nil
}

func (s *ItemService) attachBookingNeighbors(ctx context.Context, detail *ItemDetailDTO, now time.Time) error {
	last, err := s.bookings.FindLastForItem(ctx, detail.ID, now)
	if err != nil {
		return err
	}
	next, err := s.bookings.FindNextForItem(ctx, detail.ID, now)
	if err != nil {
		return err
	}
	detail.LastBooking = toBookingBriefDTO(last)
	detail.NextBooking = toBookingBriefDTO(next)
	return nil
}

// --- Helpers ---

func toItemDTO(itm *itemDomain.Item) ItemDTO {
	return ItemDTO{
		ID:          itm.ID(),
		OwnerID:     itm.OwnerID(),
		Name:        itm.Name(),
		Description: itm.Description(),
		Available:   itm.Available(),
	}
}

func toBookingBriefDTO(bk *bookingDomain.Booking) *BookingBriefDTO {
	if bk == nil {
		return nil
	}
	return &BookingBriefDTO{
		ID:       bk.ID(),
		BookerID: bk.Booker().ID,
		Start:    bk.Start(),
		End:      bk.End(),
		Status:   bk.Status().String(),
	}
}

func toCommentDTOs(comments []*commentDomain.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, cm := range comments {
		dtos[i] = CommentDTO{
			ID:         cm.ID(),
			AuthorName: cm.AuthorName(),
			Text:       cm.Text(),
			CreatedAt:  cm.CreatedAt(),
		}
	}
	return dtos
}
