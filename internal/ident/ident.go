// Package ident generates the short opaque tokens used as passenger and
// booking primary keys. Tokens are random, so uniqueness is only guaranteed
// by the check-and-retry loop the repository runs inside its insert
// transaction.
package ident

import "crypto/rand"

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	PassengerIDLength = 6
	BookingIDLength   = 8
)

func New(length int) string {
	buf := make([]byte, length)
	// crypto/rand.Read never returns an error on supported platforms
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf)
}

func NewPassengerID() string { return New(PassengerIDLength) }

func NewBookingID() string { return New(BookingIDLength) }
