package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Domenick1991/shahair/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPaymentUseCase struct {
	mock.Mock
}

func (m *MockPaymentUseCase) CreateInvoice(ctx context.Context, bookingID, providerID string) (string, error) {
	args := m.Called(ctx, bookingID, providerID)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentUseCase) Confirm(ctx context.Context, bookingID string) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

func TestPaymentHandler_CreateInvoice(t *testing.T) {
	mockService := &MockPaymentUseCase{}
	router := newTestRouter(NewPaymentHandler(mockService).Register)

	mockService.On("CreateInvoice", mock.Anything, "AB12CD34", "stripe").Return("inv_001", nil).Once()

	w := performRequest(router, http.MethodPost, "/invoice/AB12CD34", `{"preferred_vendor": "stripe"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp createInvoiceResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "inv_001", resp.InvoiceID)
}

func TestPaymentHandler_CreateInvoice_MalformedBody(t *testing.T) {
	mockService := &MockPaymentUseCase{}
	router := newTestRouter(NewPaymentHandler(mockService).Register)

	w := performRequest(router, http.MethodPost, "/invoice/AB12CD34", "{")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "malformed_body", decodeError(t, w).ErrorCode)
	mockService.AssertNotCalled(t, "CreateInvoice")
}

func TestPaymentHandler_CreateInvoice_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"missing vendor", domain.MissingField("missing_vendor", "Missing preferred vendor"), http.StatusBadRequest, "missing_vendor"},
		{"unknown booking", domain.ErrBookingNotFound, http.StatusNotFound, "unknown_booking"},
		{"unknown vendor", domain.ErrProviderNotFound, http.StatusNotFound, "unknown_vendor"},
		{"already invoiced", domain.ErrAlreadyInvoiced, http.StatusConflict, "already_invoiced"},
		{"price unavailable", domain.ErrPriceUnavailable, http.StatusInternalServerError, "price_unavailable"},
		{"provider rejected", &domain.ProviderError{StatusCode: http.StatusUnauthorized}, http.StatusBadGateway, "provider_unauthorized"},
		{"provider unreachable", domain.ErrProviderUnreachable, http.StatusGatewayTimeout, "provider_unreachable"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockPaymentUseCase{}
			router := newTestRouter(NewPaymentHandler(mockService).Register)

			mockService.On("CreateInvoice", mock.Anything, "AB12CD34", mock.Anything).Return("", tc.err).Once()

			w := performRequest(router, http.MethodPost, "/invoice/AB12CD34", `{"preferred_vendor": "stripe"}`)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Equal(t, tc.expectedCode, decodeError(t, w).ErrorCode)
		})
	}
}

func TestPaymentHandler_Confirm_Paid(t *testing.T) {
	mockService := &MockPaymentUseCase{}
	router := newTestRouter(NewPaymentHandler(mockService).Register)

	mockService.On("Confirm", mock.Anything, "AB12CD34").Return(true, nil).Once()

	w := performRequest(router, http.MethodPost, "/confirm/AB12CD34", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp confirmResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.PaymentStatus)
}

func TestPaymentHandler_Confirm_Unpaid(t *testing.T) {
	mockService := &MockPaymentUseCase{}
	router := newTestRouter(NewPaymentHandler(mockService).Register)

	mockService.On("Confirm", mock.Anything, "AB12CD34").Return(false, nil).Once()

	w := performRequest(router, http.MethodPost, "/confirm/AB12CD34", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"payment_status":false`)
}

func TestPaymentHandler_Confirm_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"unknown booking", domain.ErrBookingNotFound, http.StatusNotFound, "unknown_booking"},
		{"not invoiced", domain.ErrNotInvoiced, http.StatusConflict, "not_invoiced"},
		{"provider rejected", &domain.ProviderError{StatusCode: http.StatusInternalServerError}, http.StatusBadGateway, "provider_internal_error"},
		{"provider unreachable", domain.ErrProviderUnreachable, http.StatusGatewayTimeout, "provider_unreachable"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockPaymentUseCase{}
			router := newTestRouter(NewPaymentHandler(mockService).Register)

			mockService.On("Confirm", mock.Anything, "AB12CD34").Return(false, tc.err).Once()

			w := performRequest(router, http.MethodPost, "/confirm/AB12CD34", "")

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Equal(t, tc.expectedCode, decodeError(t, w).ErrorCode)
		})
	}
}
