package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lendly/service-booking/internal/domain"
	bookingDomain "github.com/lendly/service-booking/internal/domain/booking"
	commentDomain "github.com/lendly/service-booking/internal/domain/comment"
	itemDomain "github.com/lendly/service-booking/internal/domain/item"
	userDomain "github.com/lendly/service-booking/internal/domain/user"
)

// CreateCommentRequest holds the text of a new comment.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CommentService is the application service for item comments. Commenting is
// gated on having actually rented the item: the author needs at least one
// APPROVED booking of it that ended in the past.
type CommentService struct {
	comments commentDomain.Repository
	bookings bookingDomain.Repository
	items    itemDomain.Repository
	users    userDomain.Repository
	logger   *zap.Logger
	now      func() time.Time
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	comments commentDomain.Repository,
	bookings bookingDomain.Repository,
	items itemDomain.Repository,
	users userDomain.Repository,
	logger *zap.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		bookings: bookings,
		items:    items,
		users:    users,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateComment adds a comment on an item by a user who completed a booking
// of it.
func (s *CommentService) CreateComment(ctx context.Context, itemID, authorID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error) {
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	now := s.now()
	completed, err := s.bookings.FindCompletedForBookerAndItem(ctx, authorID, itemID, now)
	if err != nil {
		return nil, err
	}
	if len(completed) == 0 {
		return nil, domain.NewValidationError(domain.ReasonNoCompletedBooking,
			fmt.Sprintf("user %s has no completed bookings of item %s", authorID, itemID))
	}

	cm, err := commentDomain.NewComment(itemID, authorID, author.Name(), req.Text, now)
	if err != nil {
		return nil, domain.NewValidationError(domain.ReasonInvalidInput, err.Error())
	}
	if err := s.comments.Save(ctx, cm); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	s.logger.Info("comment created",
		zap.String("comment_id", cm.ID().String()),
		zap.String("item_id", itemID.String()),
		zap.String("author_id", authorID.String()),
	)

	result := CommentDTO{
		ID:         cm.ID(),
		AuthorName: cm.AuthorName(),
		Text:       cm.Text(),
		CreatedAt:  cm.CreatedAt(),
	}
	return &result, nil
}
