package booking

import (
	"errors"
	"strings"
)

var (
	ErrBookingNotFound         = errors.New("booking not found")
	ErrInvalidDateRange        = errors.New("end date must be after start date")
	ErrInvalidDateFormat       = errors.New("invalid date format")
	ErrUnknownItem             = errors.New("referenced item does not exist")
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")
	ErrInvalidPaymentChange    = errors.New("invalid payment status change")
)

// InvalidDateError reports which date field could not be parsed
type InvalidDateError struct {
	Field string
}

func (e *InvalidDateError) Error() string {
	return e.Field + ": invalid date format"
}

func (e *InvalidDateError) Unwrap() error {
	return ErrInvalidDateFormat
}

// UnavailableItemsError is returned when one or more requested items
// cannot be booked. The whole booking is rejected, nothing is persisted.
type UnavailableItemsError struct {
	Names []string
}

func (e *UnavailableItemsError) Error() string {
	return "items unavailable: " + strings.Join(e.Names, ", ")
}
