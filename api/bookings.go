package api

import (
	"net/http"

	"github.com/Domenick1991/shahair/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type providerResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type makeBookingResponse struct {
	Status    int                `json:"status"`
	BookingID string             `json:"booking_id"`
	Duplicate bool               `json:"duplicate,omitempty"`
	Providers []providerResponse `json:"providers,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/make-booking", h.create)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.MakeBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{ErrorCode: "malformed_body", Message: err.Error()})
		return
	}

	result, err := h.service.MakeBooking(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := makeBookingResponse{
		Status:    http.StatusOK,
		BookingID: result.BookingID,
		Duplicate: !result.IsNew,
	}
	for _, p := range result.Providers {
		resp.Providers = append(resp.Providers, providerResponse{Code: p.ID, Name: p.Name})
	}
	c.JSON(http.StatusOK, resp)
}
