package booking

import (
	"fmt"
	"strings"

	"github.com/lendly/service-booking/internal/domain"
)

// StateFilter names a bucket of a user's bookings for list queries. CURRENT,
// PAST and FUTURE partition the set by time against a fixed "now"; WAITING
// and REJECTED select by status. The two partitions are independent views,
// not layered filters.
type StateFilter string

const (
	FilterAll      StateFilter = "ALL"
	FilterCurrent  StateFilter = "CURRENT"
	FilterPast     StateFilter = "PAST"
	FilterFuture   StateFilter = "FUTURE"
	FilterWaiting  StateFilter = "WAITING"
	FilterRejected StateFilter = "REJECTED"
)

var stateFilters = map[StateFilter]struct{}{
	FilterAll:      {},
	FilterCurrent:  {},
	FilterPast:     {},
	FilterFuture:   {},
	FilterWaiting:  {},
	FilterRejected: {},
}

// ParseStateFilter converts a client-supplied token into a StateFilter.
// Matching is case-insensitive; an unrecognized token is a client error and
// must be rejected before any store access.
func ParseStateFilter(s string) (StateFilter, error) {
	filter := StateFilter(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := stateFilters[filter]; !ok {
		return "", domain.NewValidationError(domain.ReasonUnsupportedState,
			fmt.Sprintf("unknown state: %s", s))
	}
	return filter, nil
}

// String returns the string representation of the filter.
func (f StateFilter) String() string {
	return string(f)
}
