package payment

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Domenick1991/shahair/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateOrReuse(ctx context.Context, passenger *domain.Passenger, booking *domain.Booking) (*domain.Booking, bool, error) {
	args := m.Called(ctx, passenger, booking)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Booking), args.Bool(1), args.Error(2)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountForFlightDate(ctx context.Context, flightID string, date time.Time) (int, error) {
	args := m.Called(ctx, flightID, date)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) SetInvoice(ctx context.Context, bookingID, providerID, invoiceID string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, providerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) SetPaymentReceived(ctx context.Context, bookingID string, paid bool) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, paid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListInvoicedUnpaid(ctx context.Context, limit int) ([]domain.Booking, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) SearchByRoute(ctx context.Context, source, destination string) ([]domain.Flight, error) {
	args := m.Called(ctx, source, destination)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) List(ctx context.Context) ([]domain.PaymentProvider, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.PaymentProvider), args.Error(1)
}

func (m *MockProviderRepository) GetByID(ctx context.Context, id string) (*domain.PaymentProvider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentProvider), args.Error(1)
}

type MockPassengerRepository struct {
	mock.Mock
}

func (m *MockPassengerRepository) GetByID(ctx context.Context, id string) (*domain.Passenger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passenger), args.Error(1)
}

type MockProviderClient struct {
	mock.Mock
}

func (m *MockProviderClient) CreateInvoice(ctx context.Context, baseURL string, amount int64) (string, error) {
	args := m.Called(ctx, baseURL, amount)
	return args.String(0), args.Error(1)
}

func (m *MockProviderClient) InvoiceStatus(ctx context.Context, baseURL, invoiceID string) (bool, error) {
	args := m.Called(ctx, baseURL, invoiceID)
	return args.Bool(0), args.Error(1)
}

func strPtr(s string) *string { return &s }

func newTestService(bookings *MockBookingRepository, flights *MockFlightRepository, providers *MockProviderRepository, client *MockProviderClient) *PaymentService {
	return &PaymentService{
		bookings:   bookings,
		flights:    flights,
		providers:  providers,
		passengers: &MockPassengerRepository{},
		client:     client,
		log:        zap.NewNop(),
	}
}

func TestPaymentService_CreateInvoice_Success(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	mockProviders := &MockProviderRepository{}
	mockClient := &MockProviderClient{}
	service := newTestService(mockBookings, mockFlights, mockProviders, mockClient)

	ctx := context.Background()
	provider := &domain.PaymentProvider{ID: "PP1", BaseURL: "https://pay.example.com/", Name: "PayCo"}
	booking := &domain.Booking{ID: "AB12CD34", FlightID: "SH0001", PassengerID: "P1P2P3", Class: domain.ClassEconomy}
	flight := &domain.Flight{ID: "SH0001", Capacity: 100, EcoPrice: 500.0}
	invoiced := &domain.Booking{ID: "AB12CD34", FlightID: "SH0001", PassengerID: "P1P2P3", Class: domain.ClassEconomy, InvoiceID: strPtr("INV1"), ProviderID: strPtr("PP1")}

	mockProviders.On("GetByID", ctx, "PP1").Return(provider, nil).Once()
	mockBookings.On("GetByID", ctx, "AB12CD34").Return(booking, nil).Once()
	mockFlights.On("GetByID", ctx, "SH0001").Return(flight, nil).Once()
	mockClient.On("CreateInvoice", ctx, "https://pay.example.com/", int64(50000)).Return("INV1", nil).Once()
	mockBookings.On("SetInvoice", ctx, "AB12CD34", "PP1", "INV1").Return(invoiced, nil).Once()

	invoiceID, err := service.CreateInvoice(ctx, "AB12CD34", "PP1")

	assert.NoError(t, err)
	assert.Equal(t, "INV1", invoiceID)

	mockBookings.AssertExpectations(t)
	mockClient.AssertExpectations(t)
}

func TestPaymentService_CreateInvoice_BusinessPrice(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	mockProviders := &MockProviderRepository{}
	mockClient := &MockProviderClient{}
	service := newTestService(mockBookings, mockFlights, mockProviders, mockClient)

	ctx := context.Background()
	busPrice := 1299.99
	provider := &domain.PaymentProvider{ID: "PP1", BaseURL: "https://pay.example.com/"}
	booking := &domain.Booking{ID: "AB12CD34", FlightID: "SH0001", Class: domain.ClassBusiness}
	flight := &domain.Flight{ID: "SH0001", Business: true, EcoPrice: 500.0, BusPrice: &busPrice}

	mockProviders.On("GetByID", ctx, "PP1").Return(provider, nil).Once()
	mockBookings.On("GetByID", ctx, "AB12CD34").Return(booking, nil).Once()
	mockFlights.On("GetByID", ctx, "SH0001").Return(flight, nil).Once()
	// 1299.99 * 100 truncates to 129998 in float math; the provider contract
	// is multiply-then-truncate, so that is what must go over the wire
	mockClient.On("CreateInvoice", ctx, "https://pay.example.com/", int64(129998)).Return("INV9", nil).Once()
	mockBookings.On("SetInvoice", ctx, "AB12CD34", "PP1", "INV9").Return(&domain.Booking{ID: "AB12CD34", InvoiceID: strPtr("INV9")}, nil).Once()

	invoiceID, err := service.CreateInvoice(ctx, "AB12CD34", "PP1")

	assert.NoError(t, err)
	assert.Equal(t, "INV9", invoiceID)
	mockClient.AssertExpectations(t)
}

func TestPaymentService_CreateInvoice_MissingVendor(t *testing.T) {
	service := newTestService(&MockBookingRepository{}, &MockFlightRepository{}, &MockProviderRepository{}, &MockProviderClient{})

	_, err := service.CreateInvoice(context.Background(), "AB12CD34", "")

	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "missing_vendor", vErr.Code)
	assert.True(t, vErr.Missing)
}

func TestPaymentService_CreateInvoice_UnknownVendor(t *testing.T) {
	mockProviders := &MockProviderRepository{}
	service := newTestService(&MockBookingRepository{}, &MockFlightRepository{}, mockProviders, &MockProviderClient{})

	ctx := context.Background()
	mockProviders.On("GetByID", ctx, "XXX").Return(nil, domain.ErrProviderNotFound).Once()

	_, err := service.CreateInvoice(ctx, "AB12CD34", "XXX")

	assert.ErrorIs(t, err, domain.ErrProviderNotFound)
}

func TestPaymentService_CreateInvoice_UnknownBooking(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockProviders := &MockProviderRepository{}
	service := newTestService(mockBookings, &MockFlightRepository{}, mockProviders, &MockProviderClient{})

	ctx := context.Background()
	mockProviders.On("GetByID", ctx, "PP1").Return(&domain.PaymentProvider{ID: "PP1"}, nil).Once()
	mockBookings.On("GetByID", ctx, "NOPE").Return(nil, domain.ErrBookingNotFound).Once()

	_, err := service.CreateInvoice(ctx, "NOPE", "PP1")

	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestPaymentService_CreateInvoice_AlreadyInvoiced(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockProviders := &MockProviderRepository{}
	mockClient := &MockProviderClient{}
	service := newTestService(mockBookings, &MockFlightRepository{}, mockProviders, mockClient)

	ctx := context.Background()
	invoiced := &domain.Booking{ID: "AB12CD34", InvoiceID: strPtr("INV1"), ProviderID: strPtr("PP1")}

	mockProviders.On("GetByID", ctx, "PP1").Return(&domain.PaymentProvider{ID: "PP1"}, nil).Once()
	mockBookings.On("GetByID", ctx, "AB12CD34").Return(invoiced, nil).Once()

	_, err := service.CreateInvoice(ctx, "AB12CD34", "PP1")

	assert.ErrorIs(t, err, domain.ErrAlreadyInvoiced)
	// invoice id is write-once, so no provider call and no write can happen
	mockClient.AssertNotCalled(t, "CreateInvoice")
	mockBookings.AssertNotCalled(t, "SetInvoice")
}

func TestPaymentService_CreateInvoice_PriceUnavailable(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	mockProviders := &MockProviderRepository{}
	mockClient := &MockProviderClient{}
	service := newTestService(mockBookings, mockFlights, mockProviders, mockClient)

	ctx := context.Background()
	booking := &domain.Booking{ID: "AB12CD34", FlightID: "SH0001", Class: domain.ClassBusiness}
	// business flag set but no business price: bad reference data
	flight := &domain.Flight{ID: "SH0001", Business: true, EcoPrice: 500.0, BusPrice: nil}

	mockProviders.On("GetByID", ctx, "PP1").Return(&domain.PaymentProvider{ID: "PP1"}, nil).Once()
	mockBookings.On("GetByID", ctx, "AB12CD34").Return(booking, nil).Once()
	mockFlights.On("GetByID", ctx, "SH0001").Return(flight, nil).Once()

	_, err := service.CreateInvoice(ctx, "AB12CD34", "PP1")

	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
	mockClient.AssertNotCalled(t, "CreateInvoice")
}

func TestPaymentService_CreateInvoice_ProviderErrorLeavesBookingUntouched(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	mockProviders := &MockProviderRepository{}
	mockClient := &MockProviderClient{}
	service := newTestService(mockBookings, mockFlights, mockProviders, mockClient)

	ctx := context.Background()
	provider := &domain.PaymentProvider{ID: "PP1", BaseURL: "https://pay.example.com/"}
	booking := &domain.Booking{ID: "AB12CD34", FlightID: "SH0001", Class: domain.ClassEconomy}
	flight := &domain.Flight{ID: "SH0001", EcoPrice: 500.0}

	mockProviders.On("GetByID", ctx, "PP1").Return(provider, nil).Once()
	mockBookings.On("GetByID", ctx, "AB12CD34").Return(booking, nil).Once()
	mockFlights.On("GetByID", ctx, "SH0001").Return(flight, nil).Once()
	mockClient.On("CreateInvoice", ctx, "https://pay.example.com/", int64(50000)).Return("", &domain.ProviderError{StatusCode: http.StatusInternalServerError}).Once()

	_, err := service.CreateInvoice(ctx, "AB12CD34", "PP1")

	var provErr *domain.ProviderError
	assert.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusInternalServerError, provErr.StatusCode)
	mockBookings.AssertNotCalled(t, "SetInvoice")
}

func TestPaymentService_Confirm_Paid(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockProviders := &MockProviderRepository{}
	mockClient := &MockProviderClient{}
	service := newTestService(mockBookings, &MockFlightRepository{}, mockProviders, mockClient)

	ctx := context.Background()
	booking := &domain.Booking{ID: "AB12CD34", InvoiceID: strPtr("INV1"), ProviderID: strPtr("PP1")}
	paid := &domain.Booking{ID: "AB12CD34", InvoiceID: strPtr("INV1"), ProviderID: strPtr("PP1"), PaymentReceived: true}

	mockBookings.On("GetByID", ctx, "AB12CD34").Return(booking, nil).Once()
	mockProviders.On("GetByID", ctx, "PP1").Return(&domain.PaymentProvider{ID: "PP1", BaseURL: "https://pay.example.com/"}, nil).Once()
	mockClient.On("InvoiceStatus", ctx, "https://pay.example.com/", "INV1").Return(true, nil).Once()
	mockBookings.On("SetPaymentReceived", ctx, "AB12CD34", true).Return(paid, nil).Once()

	got, err := service.Confirm(ctx, "AB12CD34")

	assert.NoError(t, err)
	assert.True(t, got)
	mockBookings.AssertExpectations(t)
}

func TestPaymentService_Confirm_Unpaid(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockProviders := &MockProviderRepository{}
	mockClient := &MockProviderClient{}
	service := newTestService(mockBookings, &MockFlightRepository{}, mockProviders, mockClient)

	ctx := context.Background()
	booking := &domain.Booking{ID: "AB12CD34", InvoiceID: strPtr("INV1"), ProviderID: strPtr("PP1")}

	mockBookings.On("GetByID", ctx, "AB12CD34").Return(booking, nil).Once()
	mockProviders.On("GetByID", ctx, "PP1").Return(&domain.PaymentProvider{ID: "PP1", BaseURL: "https://pay.example.com/"}, nil).Once()
	mockClient.On("InvoiceStatus", ctx, "https://pay.example.com/", "INV1").Return(false, nil).Once()
	mockBookings.On("SetPaymentReceived", ctx, "AB12CD34", false).Return(booking, nil).Once()

	got, err := service.Confirm(ctx, "AB12CD34")

	assert.NoError(t, err)
	assert.False(t, got)
}

func TestPaymentService_Confirm_NotInvoiced(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockClient := &MockProviderClient{}
	service := newTestService(mockBookings, &MockFlightRepository{}, &MockProviderRepository{}, mockClient)

	ctx := context.Background()
	mockBookings.On("GetByID", ctx, "AB12CD34").Return(&domain.Booking{ID: "AB12CD34"}, nil).Once()

	_, err := service.Confirm(ctx, "AB12CD34")

	assert.ErrorIs(t, err, domain.ErrNotInvoiced)
	mockClient.AssertNotCalled(t, "InvoiceStatus")
}

func TestPaymentService_Confirm_UnknownBooking(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	service := newTestService(mockBookings, &MockFlightRepository{}, &MockProviderRepository{}, &MockProviderClient{})

	ctx := context.Background()
	mockBookings.On("GetByID", ctx, "NOPE").Return(nil, domain.ErrBookingNotFound).Once()

	_, err := service.Confirm(ctx, "NOPE")

	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestPaymentService_Confirm_ProviderErrorLeavesBookingUntouched(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockProviders := &MockProviderRepository{}
	mockClient := &MockProviderClient{}
	service := newTestService(mockBookings, &MockFlightRepository{}, mockProviders, mockClient)

	ctx := context.Background()
	booking := &domain.Booking{ID: "AB12CD34", InvoiceID: strPtr("INV1"), ProviderID: strPtr("PP1")}

	mockBookings.On("GetByID", ctx, "AB12CD34").Return(booking, nil).Once()
	mockProviders.On("GetByID", ctx, "PP1").Return(&domain.PaymentProvider{ID: "PP1", BaseURL: "https://pay.example.com/"}, nil).Once()
	mockClient.On("InvoiceStatus", ctx, "https://pay.example.com/", "INV1").Return(false, &domain.ProviderError{StatusCode: http.StatusForbidden}).Once()

	_, err := service.Confirm(ctx, "AB12CD34")

	var provErr *domain.ProviderError
	assert.ErrorAs(t, err, &provErr)
	mockBookings.AssertNotCalled(t, "SetPaymentReceived")
}

// Invoice then confirm against a provider answering INV1 / paid ends with the
// booking invoiced and payment_received true.
func TestPaymentService_InvoiceConfirmRoundTrip(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	mockProviders := &MockProviderRepository{}
	mockClient := &MockProviderClient{}
	service := newTestService(mockBookings, mockFlights, mockProviders, mockClient)

	ctx := context.Background()
	provider := &domain.PaymentProvider{ID: "PP1", BaseURL: "https://pay.example.com/"}
	requested := &domain.Booking{ID: "AB12CD34", FlightID: "SH0001", Class: domain.ClassEconomy}
	invoiced := &domain.Booking{ID: "AB12CD34", FlightID: "SH0001", Class: domain.ClassEconomy, InvoiceID: strPtr("INV1"), ProviderID: strPtr("PP1")}
	paid := &domain.Booking{ID: "AB12CD34", FlightID: "SH0001", Class: domain.ClassEconomy, InvoiceID: strPtr("INV1"), ProviderID: strPtr("PP1"), PaymentReceived: true}

	mockProviders.On("GetByID", ctx, "PP1").Return(provider, nil)
	mockBookings.On("GetByID", ctx, "AB12CD34").Return(requested, nil).Once()
	mockFlights.On("GetByID", ctx, "SH0001").Return(&domain.Flight{ID: "SH0001", EcoPrice: 500.0}, nil).Once()
	mockClient.On("CreateInvoice", ctx, "https://pay.example.com/", int64(50000)).Return("INV1", nil).Once()
	mockBookings.On("SetInvoice", ctx, "AB12CD34", "PP1", "INV1").Return(invoiced, nil).Once()

	invoiceID, err := service.CreateInvoice(ctx, "AB12CD34", "PP1")
	assert.NoError(t, err)
	assert.Equal(t, "INV1", invoiceID)

	mockBookings.On("GetByID", ctx, "AB12CD34").Return(invoiced, nil).Once()
	mockClient.On("InvoiceStatus", ctx, "https://pay.example.com/", "INV1").Return(true, nil).Once()
	mockBookings.On("SetPaymentReceived", ctx, "AB12CD34", true).Return(paid, nil).Once()

	got, err := service.Confirm(ctx, "AB12CD34")
	assert.NoError(t, err)
	assert.True(t, got)

	mockBookings.AssertExpectations(t)
	mockClient.AssertExpectations(t)
}

func TestPaymentService_ReconcileUnpaid(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockProviders := &MockProviderRepository{}
	mockClient := &MockProviderClient{}
	service := newTestService(mockBookings, &MockFlightRepository{}, mockProviders, mockClient)

	ctx := context.Background()
	first := domain.Booking{ID: "AAAA1111", InvoiceID: strPtr("INV1"), ProviderID: strPtr("PP1")}
	second := domain.Booking{ID: "BBBB2222", InvoiceID: strPtr("INV2"), ProviderID: strPtr("PP1")}

	mockBookings.On("ListInvoicedUnpaid", ctx, 100).Return([]domain.Booking{first, second}, nil).Once()
	mockProviders.On("GetByID", ctx, "PP1").Return(&domain.PaymentProvider{ID: "PP1", BaseURL: "https://pay.example.com/"}, nil)

	mockBookings.On("GetByID", ctx, "AAAA1111").Return(&first, nil).Once()
	mockClient.On("InvoiceStatus", ctx, "https://pay.example.com/", "INV1").Return(true, nil).Once()
	mockBookings.On("SetPaymentReceived", ctx, "AAAA1111", true).Return(&domain.Booking{ID: "AAAA1111", PaymentReceived: true}, nil).Once()

	mockBookings.On("GetByID", ctx, "BBBB2222").Return(&second, nil).Once()
	mockClient.On("InvoiceStatus", ctx, "https://pay.example.com/", "INV2").Return(false, nil).Once()
	mockBookings.On("SetPaymentReceived", ctx, "BBBB2222", false).Return(&second, nil).Once()

	confirmed, err := service.ReconcileUnpaid(ctx, 100)

	assert.NoError(t, err)
	assert.Equal(t, 1, confirmed)
	mockBookings.AssertExpectations(t)
}

func TestAmountMinor(t *testing.T) {
	bus := 1000.5
	flight := &domain.Flight{EcoPrice: 500.0, BusPrice: &bus, Business: true}

	eco, err := amountMinor(flight, domain.ClassEconomy)
	assert.NoError(t, err)
	assert.Equal(t, int64(50000), eco)

	business, err := amountMinor(flight, domain.ClassBusiness)
	assert.NoError(t, err)
	assert.Equal(t, int64(100050), business)

	_, err = amountMinor(&domain.Flight{EcoPrice: 500.0}, domain.ClassBusiness)
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
}
