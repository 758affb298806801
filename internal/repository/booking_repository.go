package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lendly/service-booking/internal/domain"
	bookingDomain "github.com/lendly/service-booking/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_item_window,priority:1"`
	BookerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	StartTime time.Time `gorm:"not null;index:idx_bookings_item_window,priority:2"`
	EndTime   time.Time `gorm:"not null;index:idx_bookings_item_window,priority:3"`
	Status    string    `gorm:"not null;size:16;index"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Item   ItemModel `gorm:"foreignKey:ItemID"`
	Booker UserModel `gorm:"foreignKey:BookerID"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// applyStateFilter appends the predicate for a state bucket to the query.
// This table is the single definition of the bucket semantics; both the
// booker and the owner query paths go through it. CURRENT is inclusive at
// both window bounds. now is the caller's snapshot and is never re-read here.
func applyStateFilter(q *gorm.DB, filter bookingDomain.StateFilter, now time.Time) *gorm.DB {
	switch filter {
	case bookingDomain.FilterCurrent:
		return q.Where("bookings.start_time <= ? AND bookings.end_time >= ?", now, now)
	case bookingDomain.FilterPast:
		return q.Where("bookings.end_time < ?", now)
	case bookingDomain.FilterFuture:
		return q.Where("bookings.start_time > ?", now)
	case bookingDomain.FilterWaiting:
		return q.Where("bookings.status = ?", string(bookingDomain.StatusWaiting))
	case bookingDomain.FilterRejected:
		return q.Where("bookings.status = ?", string(bookingDomain.StatusRejected))
	default: // FilterAll
		return q
	}
}

// Create persists a new booking. The item row is locked for the duration of
// the transaction so the approved-overlap check and the insert act as one
// atomic unit: two concurrent requests for the same item serialize here.
func (r *GormBookingRepository) Create(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked ItemModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", model.ItemID).
			First(&locked).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("Item", model.ItemID.String())
			}
			return fmt.Errorf("failed to lock item: %w", err)
		}

		overlap, err := hasApprovedOverlap(tx, model.ItemID, model.StartTime, model.EndTime)
		if err != nil {
			return err
		}
		if overlap {
			return domain.NewConflictError(domain.ReasonTimeOverlap,
				"item is already booked for the requested window")
		}

		if err := tx.Create(model).Error; err != nil {
			return classifyPgError(err)
		}
		return nil
	})
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Booker").
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindForBooker retrieves a page of the user's booking requests, filtered by
// state and ordered by start descending.
func (r *GormBookingRepository) FindForBooker(ctx context.Context, bookerID uuid.UUID, filter bookingDomain.StateFilter, now time.Time, page bookingDomain.Page) ([]*bookingDomain.Booking, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&BookingModel{}).Where("bookings.booker_id = ?", bookerID)
		return applyStateFilter(q, filter, now)
	}
	return r.findPage(scoped, page)
}

// FindForOwner retrieves a page of the bookings of the user's items,
// filtered by state and ordered by start descending.
func (r *GormBookingRepository) FindForOwner(ctx context.Context, ownerID uuid.UUID, filter bookingDomain.StateFilter, now time.Time, page bookingDomain.Page) ([]*bookingDomain.Booking, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&BookingModel{}).
			Joins("JOIN items ON items.id = bookings.item_id").
			Where("items.owner_id = ?", ownerID)
		return applyStateFilter(q, filter, now)
	}
	return r.findPage(scoped, page)
}

func (r *GormBookingRepository) findPage(scoped func() *gorm.DB, page bookingDomain.Page) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	if err := scoped().
		Preload("Item").
		Preload("Booker").
		Order("bookings.start_time DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}

// HasApprovedOverlap reports whether an APPROVED booking for the item
// overlaps [start, end] under inclusive bounds.
func (r *GormBookingRepository) HasApprovedOverlap(ctx context.Context, itemID uuid.UUID, start, end time.Time) (bool, error) {
	return hasApprovedOverlap(r.db.WithContext(ctx), itemID, start, end)
}

func hasApprovedOverlap(db *gorm.DB, itemID uuid.UUID, start, end time.Time) (bool, error) {
	var count int64
	err := db.Model(&BookingModel{}).
		Where("item_id = ? AND status = ? AND start_time <= ? AND end_time >= ?",
			itemID, string(bookingDomain.StatusApproved), end, start).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}
	return count > 0, nil
}

// Update persists changes to an existing booking with optimistic locking.
// The version predicate serializes concurrent decisions on the same booking;
// the database exclusion constraint on approved windows backstops the
// overlap invariant on the approve path.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return classifyPgError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError(domain.ReasonStaleUpdate,
			"booking was modified by another transaction")
	}
	return nil
}

// FindCompletedForBookerAndItem retrieves the booker's APPROVED bookings of
// the item that ended before now.
func (r *GormBookingRepository) FindCompletedForBookerAndItem(ctx context.Context, bookerID, itemID uuid.UUID, now time.Time) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Booker").
		Where("booker_id = ? AND item_id = ? AND status = ? AND end_time < ?",
			bookerID, itemID, string(bookingDomain.StatusApproved), now).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find completed bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}

// FindLastForItem retrieves the item's most recent booking started before
// now, or nil if there is none.
func (r *GormBookingRepository) FindLastForItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*bookingDomain.Booking, error) {
	return r.findNeighbor(ctx, "item_id = ? AND start_time < ?", "end_time DESC", itemID, now)
}

// FindNextForItem retrieves the item's earliest booking starting after now,
// or nil if there is none.
func (r *GormBookingRepository) FindNextForItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*bookingDomain.Booking, error) {
	return r.findNeighbor(ctx, "item_id = ? AND start_time > ?", "start_time ASC", itemID, now)
}

func (r *GormBookingRepository) findNeighbor(ctx context.Context, cond, order string, itemID uuid.UUID, now time.Time) (*bookingDomain.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Booker").
		Where(cond, itemID, now).
		Order(order).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find neighboring booking: %w", err)
	}
	return toDomainBooking(&model)
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        bk.ID(),
		ItemID:    bk.Item().ID,
		BookerID:  bk.Booker().ID,
		StartTime: bk.Start(),
		EndTime:   bk.End(),
		Status:    bk.Status().String(),
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt(),
		UpdatedAt: bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.Reconstruct(
		m.ID,
		bookingDomain.ItemRef{
			ID:        m.ItemID,
			OwnerID:   m.Item.OwnerID,
			Name:      m.Item.Name,
			Available: m.Item.Available,
		},
		bookingDomain.UserRef{ID: m.BookerID, Name: m.Booker.Name},
		m.StartTime,
		m.EndTime,
		status,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
