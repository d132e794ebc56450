package email

import (
	"context"

	"github.com/Domenick1991/shahair/internal/kafka"
	"go.uber.org/zap"
)

// Sender fans booking events out to passengers. Delivery is a log line for
// now; the worker owns the wiring so a real SMTP backend slots in here.
type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.log.Info("send email",
		zap.String("to", event.PassengerEmail),
		zap.String("event", event.Type),
		zap.String("booking_id", event.BookingID),
		zap.String("flight_id", event.FlightID),
	)
	return nil
}
