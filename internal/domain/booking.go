package domain

import "time"

type BookingClass string

const (
	ClassEconomy  BookingClass = "eco"
	ClassBusiness BookingClass = "bus"
)

func (c BookingClass) Valid() bool {
	return c == ClassEconomy || c == ClassBusiness
}

// Booking moves through three states: requested (InvoiceID nil), invoiced
// (InvoiceID and ProviderID set) and confirmed (PaymentReceived reflects the
// provider's answer). InvoiceID is write-once.
type Booking struct {
	ID              string
	FlightID        string
	PassengerID     string
	Date            time.Time
	Class           BookingClass
	InvoiceID       *string
	ProviderID      *string
	PaymentReceived bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (b *Booking) Invoiced() bool {
	return b.InvoiceID != nil
}
