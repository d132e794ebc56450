package payment

import (
	"context"
	"time"

	"github.com/Domenick1991/shahair/internal/domain"
	"github.com/Domenick1991/shahair/internal/kafka"
	"github.com/Domenick1991/shahair/internal/repository"
	"go.uber.org/zap"
)

type PaymentUseCase interface {
	CreateInvoice(ctx context.Context, bookingID, providerID string) (string, error)
	Confirm(ctx context.Context, bookingID string) (bool, error)
}

// ProviderClient is the outbound half of the provider integration; one round
// trip per call, retries are the caller's business.
type ProviderClient interface {
	CreateInvoice(ctx context.Context, baseURL string, amount int64) (string, error)
	InvoiceStatus(ctx context.Context, baseURL, invoiceID string) (bool, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type PaymentService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	providers          repository.ProviderRepository
	passengers         repository.PassengerRepository
	client             ProviderClient
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	log                *zap.Logger
}

type PaymentServiceOption func(*PaymentService)

func WithNotificationsTopic(topic string) PaymentServiceOption {
	return func(s *PaymentService) {
		s.notificationsTopic = topic
	}
}

func NewPaymentService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	providers repository.ProviderRepository,
	passengers repository.PassengerRepository,
	client ProviderClient,
	producer Producer,
	eventsTopic string,
	log *zap.Logger,
	opts ...PaymentServiceOption,
) *PaymentService {
	service := &PaymentService{
		bookings:    bookings,
		flights:     flights,
		providers:   providers,
		passengers:  passengers,
		client:      client,
		producer:    producer,
		eventsTopic: eventsTopic,
		log:         log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateInvoice moves a booking from requested to invoiced. The booking is
// only written after the provider answered 200, so a provider failure leaves
// it exactly as it was.
func (s *PaymentService) CreateInvoice(ctx context.Context, bookingID, providerID string) (string, error) {
	if providerID == "" {
		return "", domain.MissingField("missing_vendor", "Missing required preferred vendor")
	}

	provider, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		return "", err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if booking.Invoiced() {
		return "", domain.ErrAlreadyInvoiced
	}

	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		return "", err
	}

	amount, err := amountMinor(flight, booking.Class)
	if err != nil {
		return "", err
	}

	invoiceID, err := s.client.CreateInvoice(ctx, provider.BaseURL, amount)
	if err != nil {
		return "", err
	}

	updated, err := s.bookings.SetInvoice(ctx, bookingID, providerID, invoiceID)
	if err != nil {
		return "", err
	}

	s.publish(ctx, kafka.EventInvoiceCreated, updated)
	return invoiceID, nil
}

// Confirm asks the provider whether the booking's invoice has been paid and
// records the answer on payment_received.
func (s *PaymentService) Confirm(ctx context.Context, bookingID string) (bool, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return false, err
	}
	if !booking.Invoiced() {
		return false, domain.ErrNotInvoiced
	}

	provider, err := s.providers.GetByID(ctx, *booking.ProviderID)
	if err != nil {
		return false, err
	}

	paid, err := s.client.InvoiceStatus(ctx, provider.BaseURL, *booking.InvoiceID)
	if err != nil {
		return false, err
	}

	updated, err := s.bookings.SetPaymentReceived(ctx, bookingID, paid)
	if err != nil {
		return false, err
	}

	if paid && !booking.PaymentReceived {
		s.publish(ctx, kafka.EventPaymentConfirmed, updated)
	}
	return paid, nil
}

// ReconcileUnpaid re-checks invoiced-but-unpaid bookings against their
// providers so payments completed out-of-band land without an API call.
// Per-booking failures are logged and skipped.
func (s *PaymentService) ReconcileUnpaid(ctx context.Context, batchSize int) (int, error) {
	pending, err := s.bookings.ListInvoicedUnpaid(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	confirmed := 0
	for _, b := range pending {
		paid, err := s.Confirm(ctx, b.ID)
		if err != nil {
			s.log.Warn("reconcile: confirm failed", zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		if paid {
			confirmed++
		}
	}
	return confirmed, nil
}

func amountMinor(flight *domain.Flight, class domain.BookingClass) (int64, error) {
	switch class {
	case domain.ClassEconomy:
		return int64(flight.EcoPrice * 100), nil
	case domain.ClassBusiness:
		if flight.BusPrice == nil {
			return 0, domain.ErrPriceUnavailable
		}
		return int64(*flight.BusPrice * 100), nil
	default:
		return 0, domain.InvalidField("invalid_class", "Enter a valid booking class (eco or bus)")
	}
}

func (s *PaymentService) publish(ctx context.Context, eventType string, b *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}

	email := ""
	if passenger, err := s.passengers.GetByID(ctx, b.PassengerID); err == nil {
		email = passenger.Email
	}

	event := kafka.BookingEvent{
		Type:           eventType,
		BookingID:      b.ID,
		FlightID:       b.FlightID,
		PassengerEmail: email,
		Date:           b.Date.Format("2006-01-02"),
		Class:          string(b.Class),
		Paid:           b.PaymentReceived,
		OccurredAt:     time.Now(),
	}
	if b.InvoiceID != nil {
		event.InvoiceID = *b.InvoiceID
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, b.ID, event); err != nil {
		s.log.Warn("failed to publish payment event", zap.String("booking_id", b.ID), zap.Error(err))
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, b.ID, event); err != nil {
			s.log.Warn("failed to publish notification", zap.String("booking_id", b.ID), zap.Error(err))
		}
	}
}

var _ PaymentUseCase = (*PaymentService)(nil)
