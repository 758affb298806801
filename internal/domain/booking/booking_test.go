package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendly/service-booking/internal/domain"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

func availableItem(ownerID uuid.UUID) ItemRef {
	return ItemRef{ID: uuid.New(), OwnerID: ownerID, Name: "drill", Available: true}
}

func someBooker() UserRef {
	return UserRef{ID: uuid.New(), Name: "alice"}
}

func TestNewBooking(t *testing.T) {
	now := fixedNow()
	owner := uuid.New()

	t.Run("creates waiting booking with version 1", func(t *testing.T) {
		item := availableItem(owner)
		booker := someBooker()
		start := now.Add(time.Hour)
		end := now.Add(2 * time.Hour)

		bk, err := NewBooking(item, booker, start, end, now)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, bk.ID())
		assert.Equal(t, StatusWaiting, bk.Status())
		assert.Equal(t, int64(1), bk.Version())
		assert.Equal(t, item, bk.Item())
		assert.Equal(t, booker, bk.Booker())
		assert.True(t, bk.Start().Equal(start))
		assert.True(t, bk.End().Equal(end))
	})

	t.Run("rejects missing item ID", func(t *testing.T) {
		_, err := NewBooking(ItemRef{}, someBooker(), now.Add(time.Hour), now.Add(2*time.Hour), now)
		assertDomainError(t, err, domain.KindValidation, domain.ReasonInvalidInput)
	})

	t.Run("rejects owner booking own item", func(t *testing.T) {
		item := availableItem(owner)
		_, err := NewBooking(item, UserRef{ID: owner, Name: "bob"}, now.Add(time.Hour), now.Add(2*time.Hour), now)
		assertDomainError(t, err, domain.KindForbidden, domain.ReasonSelfBooking)
	})

	t.Run("rejects unavailable item", func(t *testing.T) {
		item := availableItem(owner)
		item.Available = false
		_, err := NewBooking(item, someBooker(), now.Add(time.Hour), now.Add(2*time.Hour), now)
		assertDomainError(t, err, domain.KindConflict, domain.ReasonItemUnavailable)
	})

	t.Run("self-booking is reported before availability", func(t *testing.T) {
		item := availableItem(owner)
		item.Available = false
		_, err := NewBooking(item, UserRef{ID: owner, Name: "bob"}, now.Add(time.Hour), now.Add(2*time.Hour), now)
		assertDomainError(t, err, domain.KindForbidden, domain.ReasonSelfBooking)
	})

	t.Run("availability is reported before the time window", func(t *testing.T) {
		item := availableItem(owner)
		item.Available = false
		_, err := NewBooking(item, someBooker(), now.Add(-time.Hour), now.Add(time.Hour), now)
		assertDomainError(t, err, domain.KindConflict, domain.ReasonItemUnavailable)
	})

	windowCases := []struct {
		name       string
		start, end time.Time
	}{
		{"start in the past", now.Add(-time.Hour), now.Add(time.Hour)},
		{"start exactly now", now, now.Add(time.Hour)},
		{"end in the past", now.Add(time.Hour), now.Add(-time.Minute)},
		{"end before start", now.Add(2 * time.Hour), now.Add(time.Hour)},
		{"empty window", now.Add(time.Hour), now.Add(time.Hour)},
	}
	for _, tc := range windowCases {
		t.Run("rejects window with "+tc.name, func(t *testing.T) {
			_, err := NewBooking(availableItem(owner), someBooker(), tc.start, tc.end, now)
			assertDomainError(t, err, domain.KindValidation, domain.ReasonInvalidTimeWindow)
		})
	}
}

func TestBookingDecide(t *testing.T) {
	now := fixedNow()
	owner := uuid.New()

	newWaiting := func(t *testing.T) *Booking {
		t.Helper()
		bk, err := NewBooking(availableItem(owner), someBooker(), now.Add(time.Hour), now.Add(2*time.Hour), now)
		require.NoError(t, err)
		return bk
	}

	t.Run("approve from waiting", func(t *testing.T) {
		bk := newWaiting(t)
		later := now.Add(time.Minute)

		require.NoError(t, bk.Approve(later))
		assert.Equal(t, StatusApproved, bk.Status())
		assert.True(t, bk.UpdatedAt().Equal(later))
	})

	t.Run("reject from waiting", func(t *testing.T) {
		bk := newWaiting(t)
		require.NoError(t, bk.Reject(now.Add(time.Minute)))
		assert.Equal(t, StatusRejected, bk.Status())
	})

	t.Run("approved booking cannot be decided again", func(t *testing.T) {
		bk := newWaiting(t)
		require.NoError(t, bk.Approve(now))

		err := bk.Reject(now)
		assertDomainError(t, err, domain.KindInvalidState, domain.ReasonAlreadyDecided)
		assert.Equal(t, StatusApproved, bk.Status())

		err = bk.Approve(now)
		assertDomainError(t, err, domain.KindInvalidState, domain.ReasonAlreadyDecided)
	})

	t.Run("rejected booking cannot be decided again", func(t *testing.T) {
		bk := newWaiting(t)
		require.NoError(t, bk.Reject(now))

		err := bk.Approve(now)
		assertDomainError(t, err, domain.KindInvalidState, domain.ReasonAlreadyDecided)
		assert.Equal(t, StatusRejected, bk.Status())
	})
}

func TestBookingVisibleTo(t *testing.T) {
	now := fixedNow()
	owner := uuid.New()
	item := availableItem(owner)
	booker := someBooker()

	bk, err := NewBooking(item, booker, now.Add(time.Hour), now.Add(2*time.Hour), now)
	require.NoError(t, err)

	assert.True(t, bk.VisibleTo(booker.ID))
	assert.True(t, bk.VisibleTo(owner))
	assert.False(t, bk.VisibleTo(uuid.New()))
}

func TestBookingOverlaps(t *testing.T) {
	now := fixedNow()
	start := now.Add(time.Hour)
	end := now.Add(3 * time.Hour)

	bk, err := NewBooking(availableItem(uuid.New()), someBooker(), start, end, now)
	require.NoError(t, err)

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical window", start, end, true},
		{"contained window", start.Add(time.Minute), end.Add(-time.Minute), true},
		{"containing window", start.Add(-time.Hour), end.Add(time.Hour), true},
		{"overlapping the start", start.Add(-time.Hour), start.Add(time.Minute), true},
		{"overlapping the end", end.Add(-time.Minute), end.Add(time.Hour), true},
		{"touching at the start", start.Add(-time.Hour), start, true},
		{"touching at the end", end, end.Add(time.Hour), true},
		{"strictly before", start.Add(-2 * time.Hour), start.Add(-time.Second), false},
		{"strictly after", end.Add(time.Second), end.Add(time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, bk.Overlaps(tc.start, tc.end))
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusWaiting.CanTransitionTo(StatusApproved))
	assert.True(t, StatusWaiting.CanTransitionTo(StatusRejected))
	assert.False(t, StatusApproved.CanTransitionTo(StatusRejected))
	assert.False(t, StatusApproved.CanTransitionTo(StatusWaiting))
	assert.False(t, StatusRejected.CanTransitionTo(StatusApproved))

	assert.False(t, StatusWaiting.IsTerminal())
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
}

func assertDomainError(t *testing.T, err error, kind domain.Kind, reason string) {
	t.Helper()
	require.Error(t, err)
	var de *domain.Error
	require.True(t, errors.As(err, &de), "expected *domain.Error, got %T", err)
	assert.Equal(t, kind, de.Kind)
	assert.Equal(t, reason, de.Reason)
}
