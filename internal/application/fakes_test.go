package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lendly/service-booking/internal/domain"
	bookingDomain "github.com/lendly/service-booking/internal/domain/booking"
	commentDomain "github.com/lendly/service-booking/internal/domain/comment"
	itemDomain "github.com/lendly/service-booking/internal/domain/item"
	userDomain "github.com/lendly/service-booking/internal/domain/user"
)

// In-memory repositories implementing the domain contracts, including the
// atomic overlap check on create and the version check on update.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*userDomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*userDomain.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id.String())
	}
	return u, nil
}

func (r *fakeUserRepo) ListAll(_ context.Context) ([]*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*userDomain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Save(_ context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email() == u.Email() {
			return domain.NewConflictError(domain.ReasonEmailTaken, "email already in use")
		}
	}
	r.users[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID()]; !ok {
		return domain.NewNotFoundError("User", u.ID().String())
	}
	r.users[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*itemDomain.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*itemDomain.Item)}
}

func (r *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	itm, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("Item", id.String())
	}
	return itm, nil
}

func (r *fakeItemRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID) ([]*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*itemDomain.Item
	for _, itm := range r.items {
		if itm.IsOwnedBy(ownerID) {
			out = append(out, itm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out, nil
}

func (r *fakeItemRepo) SearchByText(_ context.Context, text string) ([]*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	needle := strings.ToLower(text)
	var out []*itemDomain.Item
	for _, itm := range r.items {
		if !itm.Available() {
			continue
		}
		if strings.Contains(strings.ToLower(itm.Name()), needle) ||
			strings.Contains(strings.ToLower(itm.Description()), needle) {
			out = append(out, itm)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Save(_ context.Context, itm *itemDomain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[itm.ID()] = itm
	return nil
}

func (r *fakeItemRepo) Update(_ context.Context, itm *itemDomain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[itm.ID()]; !ok {
		return domain.NewNotFoundError("Item", itm.ID().String())
	}
	r.items[itm.ID()] = itm
	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bookings {
		if existing.Item().ID == bk.Item().ID &&
			existing.Status() == bookingDomain.StatusApproved &&
			existing.Overlaps(bk.Start(), bk.End()) {
			return domain.NewConflictError(domain.ReasonTimeOverlap,
				"item is already booked for the requested window")
		}
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func matchesFilter(bk *bookingDomain.Booking, filter bookingDomain.StateFilter, now time.Time) bool {
	switch filter {
	case bookingDomain.FilterCurrent:
		return !bk.Start().After(now) && !bk.End().Before(now)
	case bookingDomain.FilterPast:
		return bk.End().Before(now)
	case bookingDomain.FilterFuture:
		return bk.Start().After(now)
	case bookingDomain.FilterWaiting:
		return bk.Status() == bookingDomain.StatusWaiting
	case bookingDomain.FilterRejected:
		return bk.Status() == bookingDomain.StatusRejected
	default:
		return true
	}
}

func (r *fakeBookingRepo) findFiltered(match func(*bookingDomain.Booking) bool, filter bookingDomain.StateFilter, now time.Time, page bookingDomain.Page) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if match(bk) && matchesFilter(bk, filter, now) {
			all = append(all, bk)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Start().After(all[j].Start()) })

	total := int64(len(all))
	if page.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[page.Offset:]
	if page.Limit < len(all) {
		all = all[:page.Limit]
	}
	return all, total, nil
}

func (r *fakeBookingRepo) FindForBooker(_ context.Context, bookerID uuid.UUID, filter bookingDomain.StateFilter, now time.Time, page bookingDomain.Page) ([]*bookingDomain.Booking, int64, error) {
	return r.findFiltered(func(bk *bookingDomain.Booking) bool {
		return bk.Booker().ID == bookerID
	}, filter, now, page)
}

func (r *fakeBookingRepo) FindForOwner(_ context.Context, ownerID uuid.UUID, filter bookingDomain.StateFilter, now time.Time, page bookingDomain.Page) ([]*bookingDomain.Booking, int64, error) {
	return r.findFiltered(func(bk *bookingDomain.Booking) bool {
		return bk.Item().OwnerID == ownerID
	}, filter, now, page)
}

func (r *fakeBookingRepo) HasApprovedOverlap(_ context.Context, itemID uuid.UUID, start, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bk := range r.bookings {
		if bk.Item().ID == itemID && bk.Status() == bookingDomain.StatusApproved && bk.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.bookings[bk.ID()]
	if !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	if existing.Version() != bk.Version()-1 && existing != bk {
		return domain.NewConflictError(domain.ReasonStaleUpdate,
			"booking was modified by another transaction")
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) FindCompletedForBookerAndItem(_ context.Context, bookerID, itemID uuid.UUID, now time.Time) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.Booker().ID == bookerID && bk.Item().ID == itemID &&
			bk.Status() == bookingDomain.StatusApproved && bk.End().Before(now) {
			out = append(out, bk)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindLastForItem(_ context.Context, itemID uuid.UUID, now time.Time) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.Item().ID != itemID || !bk.Start().Before(now) {
			continue
		}
		if last == nil || bk.End().After(last.End()) {
			last = bk
		}
	}
	return last, nil
}

func (r *fakeBookingRepo) FindNextForItem(_ context.Context, itemID uuid.UUID, now time.Time) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var next *bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.Item().ID != itemID || !bk.Start().After(now) {
			continue
		}
		if next == nil || bk.Start().Before(next.Start()) {
			next = bk
		}
	}
	return next, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[uuid.UUID][]*commentDomain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uuid.UUID][]*commentDomain.Comment)}
}

func (r *fakeCommentRepo) Save(_ context.Context, c *commentDomain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[c.ItemID()] = append(r.comments[c.ItemID()], c)
	return nil
}

func (r *fakeCommentRepo) FindByItemID(_ context.Context, itemID uuid.UUID) ([]*commentDomain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*commentDomain.Comment, len(r.comments[itemID]))
	copy(out, r.comments[itemID])
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out, nil
}
