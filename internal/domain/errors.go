package domain

import "errors"

// Domain errors for the booking, payment and ticketing flows
var (
	// ErrSoldOut indicates the requested ticket type has no remaining capacity
	ErrSoldOut = errors.New("ticket type is sold out")

	// ErrValidation indicates the request failed input validation
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates a concurrent state transition won first.
	// Callers should re-read the record and act on its current state.
	ErrConflict = errors.New("conflicting state transition")

	// ErrGateway indicates the payment gateway call failed
	ErrGateway = errors.New("payment gateway error")

	// ErrSignatureMismatch indicates the payment signature did not verify
	ErrSignatureMismatch = errors.New("payment signature mismatch")

	// ErrInvalidTransition indicates a booking status transition that the
	// lifecycle does not allow
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// Not-found errors
	ErrEventNotFound      = errors.New("event not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrOrderNotFound      = errors.New("payment order not found")
	ErrTicketNotFound     = errors.New("ticket not found")

	// ErrBookingExpired indicates the payment window has elapsed
	ErrBookingExpired = errors.New("booking has expired")

	// ErrAmountMismatch indicates the order amount does not match the booking total
	ErrAmountMismatch = errors.New("amount does not match booking total")

	// ErrAlreadyCheckedIn indicates the ticket was already used for entry
	ErrAlreadyCheckedIn = errors.New("ticket already checked in")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
