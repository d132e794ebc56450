package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAirportNotFound   = errors.New("airport not found")
	ErrFlightNotFound    = errors.New("flight not found")
	ErrPassengerNotFound = errors.New("passenger not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrProviderNotFound  = errors.New("payment provider not found")

	ErrDuplicateEmail   = errors.New("email already belongs to another passenger")
	ErrAlreadyInvoiced  = errors.New("booking already has an invoice")
	ErrNotInvoiced      = errors.New("booking has no invoice yet")
	ErrCapacityExceeded = errors.New("no seats left for this flight and date")

	// ErrPriceUnavailable means the flight claims to support a class it has
	// no price for. Bad reference data, not bad user input.
	ErrPriceUnavailable = errors.New("flight has no price for the requested class")

	ErrProviderUnreachable = errors.New("payment provider unreachable")
)

// ValidationError is a user-correctable input problem. Missing distinguishes
// an absent field from a present but out-of-range one; the API layer maps the
// two to different HTTP statuses.
type ValidationError struct {
	Code    string
	Message string
	Missing bool
}

func (e *ValidationError) Error() string { return e.Message }

func MissingField(code, message string) error {
	return &ValidationError{Code: code, Message: message, Missing: true}
}

func InvalidField(code, message string) error {
	return &ValidationError{Code: code, Message: message}
}

// ProviderError carries the non-200 status the external payment provider
// answered with. The booking is never mutated when one of these is returned.
type ProviderError struct {
	StatusCode int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider returned status %d", e.StatusCode)
}
