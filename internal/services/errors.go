package services

import (
	"errors"
)

type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindState             ErrorKind = "state"
	KindAuthorization     ErrorKind = "authorization"
	KindNotFound          ErrorKind = "not_found"
)

// Error is a classified failure surfaced to callers. Sentinel values below
// are compared by identity; dynamic ones are built with newError.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the kind of a classified error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

var (
	ErrUserNotFound    = newError(KindNotFound, "user not found")
	ErrTaskNotFound    = newError(KindNotFound, "task not found")
	ErrLaborerNotFound = newError(KindNotFound, "laborer not found")
	ErrGroupNotFound   = newError(KindNotFound, "laborer group not found")
	ErrProductNotFound = newError(KindNotFound, "product not found")
	ErrOrderNotFound   = newError(KindNotFound, "order not found")
	ErrItemNotFound    = newError(KindNotFound, "inventory item not found")

	ErrNotificationNotFound = newError(KindNotFound, "notification not found or already read")

	ErrNotOwner       = newError(KindAuthorization, "you do not own this resource")
	ErrFarmerOnly     = newError(KindAuthorization, "only farmers can perform this action")
	ErrNotParticipant = newError(KindAuthorization, "only the buyer or the farmer of this order can do that")

	ErrPieceRateInputs    = newError(KindValidation, "quantity and unit_price required for piece rate tasks")
	ErrAssignmentRequired = newError(KindValidation, "exactly one of assigned_to or laborer_group_id must be set")
	ErrEmptyGroup         = newError(KindValidation, "laborer group has no members")
	ErrInvalidTaskType    = newError(KindValidation, "invalid task type")
	ErrInvalidPaymentType = newError(KindValidation, "invalid payment type")
	ErrInvalidQuantity    = newError(KindValidation, "quantity must be greater than zero")
	ErrInvalidPrice       = newError(KindValidation, "price must be greater than zero")
	ErrInvalidCategory    = newError(KindValidation, "category must be seeds, fertilizer, pesticide, equipment, produce, fuel or other")
	ErrTokenLifetime      = newError(KindValidation, "token lifetime must be between 1 and 365 days")
	ErrNoWageRate         = newError(KindValidation, "wage amount could not be determined, set a laborer rate or wage_amount")

	ErrTaskNotPending = newError(KindState, "task already completed/cancelled")

	ErrInsufficientStock     = newError(KindInsufficientStock, "insufficient product quantity available")
	ErrInsufficientInventory = newError(KindInsufficientStock, "not enough stock on hand")
	ErrInvalidTransition     = newError(KindInvalidTransition, "order cannot move to that status from its current state")
	ErrAlreadyPaid           = newError(KindState, "order is already marked as paid")
)
