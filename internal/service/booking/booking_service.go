package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/shahair/internal/domain"
	"github.com/Domenick1991/shahair/internal/kafka"
	"github.com/Domenick1991/shahair/internal/repository"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type BookingUseCase interface {
	MakeBooking(ctx context.Context, input MakeBookingInput) (*MakeBookingResult, error)
}

type Cache interface {
	InvalidateSearch(ctx context.Context, source, destination, date string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Window bounds the years a value may fall into, inclusive.
type Window struct {
	MinYear int
	MaxYear int
}

func (w Window) Contains(t time.Time) bool {
	return t.Year() >= w.MinYear && t.Year() <= w.MaxYear
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	providers          repository.ProviderRepository
	cache              Cache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	birthWindow        Window
	departureWindow    Window
	log                *zap.Logger
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

type MakeBookingInput struct {
	LegalName     string `json:"legal_name"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	DateOfBirth   string `json:"date_of_birth"`
	PassportNo    string `json:"passport_no"`
	Email         string `json:"email"`
	ContactNo     string `json:"contact_no"`
	FlightCode    string `json:"flight_code"`
	Class         string `json:"class"`
	DepartureDate string `json:"date_of_departure"`
}

type MakeBookingResult struct {
	BookingID string
	IsNew     bool
	Providers []domain.PaymentProvider
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	providers repository.ProviderRepository,
	cache Cache,
	producer Producer,
	eventsTopic string,
	birthWindow, departureWindow Window,
	log *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:        bookings,
		flights:         flights,
		providers:       providers,
		cache:           cache,
		producer:        producer,
		eventsTopic:     eventsTopic,
		birthWindow:     birthWindow,
		departureWindow: departureWindow,
		log:             log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// MakeBooking validates the request, registers the passenger when the
// passport is new and creates the booking, all before any payment step.
// Repeating an identical request returns the original booking id with
// IsNew=false instead of a second row.
func (s *BookingService) MakeBooking(ctx context.Context, input MakeBookingInput) (*MakeBookingResult, error) {
	passenger, departure, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}

	flight, err := s.flights.GetByID(ctx, input.FlightCode)
	if err != nil {
		return nil, err
	}

	class := domain.BookingClass(input.Class)
	if class == domain.ClassBusiness && !flight.Business {
		return nil, domain.InvalidField("invalid_class", "This flight does not offer business class")
	}

	booking := &domain.Booking{
		FlightID: flight.ID,
		Date:     departure,
		Class:    class,
	}

	created, isNew, err := s.bookings.CreateOrReuse(ctx, passenger, booking)
	if err != nil {
		return nil, err
	}

	result := &MakeBookingResult{BookingID: created.ID, IsNew: isNew}
	if !isNew {
		return result, nil
	}

	if s.cache != nil {
		_ = s.cache.InvalidateSearch(ctx, flight.Source, flight.Destination, input.DepartureDate)
	}
	s.publish(ctx, kafka.EventBookingCreated, created, passenger.Email)

	providers, err := s.providers.List(ctx)
	if err != nil {
		return nil, err
	}
	result.Providers = providers
	return result, nil
}

func (s *BookingService) validate(ctx context.Context, input MakeBookingInput) (*domain.Passenger, time.Time, error) {
	var zero time.Time

	if input.LegalName == "" {
		return nil, zero, domain.MissingField("missing_legal_name", "Missing required legal name")
	}
	if input.DateOfBirth == "" {
		return nil, zero, domain.MissingField("missing_date_of_birth", "Missing required date of birth")
	}
	if input.PassportNo == "" {
		return nil, zero, domain.MissingField("missing_passport_no", "Missing required passport number")
	}
	if input.Email == "" {
		return nil, zero, domain.MissingField("missing_email", "Missing required email address")
	}
	if input.FlightCode == "" {
		return nil, zero, domain.MissingField("missing_flight_code", "Missing required flight code")
	}
	if input.Class == "" {
		return nil, zero, domain.MissingField("missing_class", "Missing required booking class")
	}
	if input.DepartureDate == "" {
		return nil, zero, domain.MissingField("missing_departure_date", "Missing required departure date")
	}

	dob, err := time.Parse(dateLayout, input.DateOfBirth)
	if err != nil {
		return nil, zero, domain.InvalidField("invalid_date_of_birth", "Date of birth must look like YYYY-MM-DD")
	}
	if !s.birthWindow.Contains(dob) {
		return nil, zero, domain.InvalidField("invalid_date_of_birth",
			fmt.Sprintf("Date of birth is supposed to be between %d-%d", s.birthWindow.MinYear, s.birthWindow.MaxYear))
	}
	if len(input.PassportNo) > 9 {
		return nil, zero, domain.InvalidField("passport_too_long", "Length of passport number should be 9 characters or less")
	}
	if !strings.Contains(input.Email, "@") {
		return nil, zero, domain.InvalidField("malformed_email", `Invalid email address. Should contain "@"`)
	}
	if !domain.BookingClass(input.Class).Valid() {
		return nil, zero, domain.InvalidField("invalid_class", "Enter a valid booking class (eco or bus)")
	}

	departure, err := time.Parse(dateLayout, input.DepartureDate)
	if err != nil {
		return nil, zero, domain.InvalidField("invalid_departure_date", "Departure date must look like YYYY-MM-DD")
	}
	if !s.departureWindow.Contains(departure) {
		return nil, zero, domain.InvalidField("invalid_departure_window",
			fmt.Sprintf("You can only book 2 years in advance. Enter departure date between %d-%d", s.departureWindow.MinYear, s.departureWindow.MaxYear))
	}

	passenger := &domain.Passenger{
		LegalName:   input.LegalName,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		DateOfBirth: dob,
		PassportNo:  input.PassportNo,
		Email:       input.Email,
		ContactNo:   input.ContactNo,
	}
	return passenger, departure, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking, email string) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:           eventType,
		BookingID:      b.ID,
		FlightID:       b.FlightID,
		PassengerEmail: email,
		Date:           b.Date.Format(dateLayout),
		Class:          string(b.Class),
		OccurredAt:     time.Now(),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, b.ID, event); err != nil {
		s.log.Warn("failed to publish booking event", zap.String("booking_id", b.ID), zap.Error(err))
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, b.ID, event); err != nil {
			s.log.Warn("failed to publish notification", zap.String("booking_id", b.ID), zap.Error(err))
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
