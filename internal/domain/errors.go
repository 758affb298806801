package domain

import "fmt"

// Kind classifies a domain error for transport-level mapping.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindInvalidState
)

// Machine-readable reason codes surfaced to clients alongside the message.
const (
	ReasonInvalidInput       = "INVALID_INPUT"
	ReasonInvalidTimeWindow  = "INVALID_TIME_WINDOW"
	ReasonInvalidPagination  = "INVALID_PAGINATION"
	ReasonUnsupportedState   = "UNSUPPORTED_STATE"
	ReasonSelfBooking        = "SELF_BOOKING"
	ReasonItemUnavailable    = "ITEM_UNAVAILABLE"
	ReasonTimeOverlap        = "TIME_OVERLAP"
	ReasonAlreadyDecided     = "ALREADY_DECIDED"
	ReasonNotItemOwner       = "NOT_ITEM_OWNER"
	ReasonNotAuthorized      = "NOT_AUTHORIZED_FOR_BOOKING"
	ReasonNoCompletedBooking = "NO_COMPLETED_BOOKINGS"
	ReasonEmailTaken         = "EMAIL_TAKEN"
	ReasonStaleUpdate        = "STALE_UPDATE"
)

// Error is the domain error type shared by every module. Services return
// *Error for business-rule violations; infrastructure failures are wrapped
// with fmt.Errorf and surface as internal errors at the transport layer.
type Error struct {
	Kind    Kind
	Reason  string
	Message string
}

// Error returns the user-facing message.
func (e *Error) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with a machine-readable reason.
func NewValidationError(reason, message string) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Message: message}
}

// NewNotFoundError creates a not-found error for the given resource and identifier.
func NewNotFoundError(resource, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Reason:  "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %s does not exist", resource, id),
	}
}

// NewForbiddenError creates an authorization error.
func NewForbiddenError(reason, message string) *Error {
	return &Error{Kind: KindForbidden, Reason: reason, Message: message}
}

// NewConflictError creates a conflict error.
func NewConflictError(reason, message string) *Error {
	return &Error{Kind: KindConflict, Reason: reason, Message: message}
}

// NewInvalidStateError signals an illegal state-machine transition.
func NewInvalidStateError(current, attempted string) *Error {
	return &Error{
		Kind:    KindInvalidState,
		Reason:  ReasonAlreadyDecided,
		Message: fmt.Sprintf("cannot transition from %s to %s", current, attempted),
	}
}
