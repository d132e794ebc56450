package domain

import "time"

// Passenger is deduplicated by passport number: the first booking with a
// given passport creates the record, later bookings reuse it as-is.
type Passenger struct {
	ID          string
	LegalName   string
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	PassportNo  string
	Email       string
	ContactNo   string
}
