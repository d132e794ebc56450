package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/shahair/internal/domain"
	"github.com/gin-gonic/gin"
)

// errorResponse is the uniform failure envelope every endpoint returns.
type errorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
}

// writeError maps domain errors onto HTTP statuses: 400 missing/malformed,
// 401 domain-invalid values, 404 unknown references, 409 conflicts, 5xx for
// provider and data-integrity failures.
func writeError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		status := http.StatusUnauthorized
		if vErr.Missing {
			status = http.StatusBadRequest
		}
		c.JSON(status, errorResponse{ErrorCode: vErr.Code, Message: vErr.Message})
		return
	}

	var provErr *domain.ProviderError
	if errors.As(err, &provErr) {
		code, message := providerErrorCode(provErr.StatusCode)
		c.JSON(http.StatusBadGateway, errorResponse{ErrorCode: code, Message: message})
		return
	}

	switch {
	case errors.Is(err, domain.ErrAirportNotFound):
		c.JSON(http.StatusUnauthorized, errorResponse{ErrorCode: "invalid_airport_code", Message: "Airport code is invalid"})
	case errors.Is(err, domain.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, errorResponse{ErrorCode: "unknown_flight", Message: "Entered flight code does not exist"})
	case errors.Is(err, domain.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, errorResponse{ErrorCode: "unknown_booking", Message: "Booking id is invalid"})
	case errors.Is(err, domain.ErrProviderNotFound):
		c.JSON(http.StatusNotFound, errorResponse{ErrorCode: "unknown_vendor", Message: "Preferred vendor is invalid"})
	case errors.Is(err, domain.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, errorResponse{ErrorCode: "duplicate_email", Message: "This email already has a passenger. Please use a different email address"})
	case errors.Is(err, domain.ErrAlreadyInvoiced):
		c.JSON(http.StatusConflict, errorResponse{ErrorCode: "already_invoiced", Message: "Given booking id already has an invoice"})
	case errors.Is(err, domain.ErrNotInvoiced):
		c.JSON(http.StatusConflict, errorResponse{ErrorCode: "not_invoiced", Message: "Booking has no invoice to confirm yet"})
	case errors.Is(err, domain.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, errorResponse{ErrorCode: "capacity_exceeded", Message: "No seats left for this flight and date"})
	case errors.Is(err, domain.ErrPriceUnavailable):
		c.JSON(http.StatusInternalServerError, errorResponse{ErrorCode: "price_unavailable", Message: "Failed to retrieve flight price"})
	case errors.Is(err, domain.ErrProviderUnreachable):
		c.JSON(http.StatusGatewayTimeout, errorResponse{ErrorCode: "provider_unreachable", Message: "Payment provider did not respond"})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{ErrorCode: "internal_error", Message: "Internal server error"})
	}
}

func providerErrorCode(status int) (string, string) {
	switch status {
	case http.StatusBadRequest:
		return "provider_bad_request", "Error: Bad Request"
	case http.StatusUnauthorized:
		return "provider_unauthorized", "Error: Unauthorized"
	case http.StatusForbidden:
		return "provider_forbidden", "Error: Forbidden"
	case http.StatusNotFound:
		return "provider_not_found", "Error: Not Found"
	case http.StatusInternalServerError:
		return "provider_internal_error", "Error: Internal Server Error"
	default:
		return "provider_error", "Error: unexpected provider response"
	}
}
