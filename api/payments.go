package api

import (
	"net/http"

	"github.com/Domenick1991/shahair/internal/service/payment"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service payment.PaymentUseCase
}

type createInvoiceRequest struct {
	PreferredVendor string `json:"preferred_vendor"`
}

type createInvoiceResponse struct {
	Status    int    `json:"status"`
	InvoiceID string `json:"invoice_id"`
}

type confirmResponse struct {
	Status        int  `json:"status"`
	PaymentStatus bool `json:"payment_status"`
}

func NewPaymentHandler(service payment.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("/invoice/:booking_id", h.createInvoice)
	router.POST("/confirm/:booking_id", h.confirm)
}

func (h *PaymentHandler) createInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{ErrorCode: "malformed_body", Message: err.Error()})
		return
	}

	invoiceID, err := h.service.CreateInvoice(c.Request.Context(), c.Param("booking_id"), req.PreferredVendor)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, createInvoiceResponse{Status: http.StatusOK, InvoiceID: invoiceID})
}

func (h *PaymentHandler) confirm(c *gin.Context) {
	paid, err := h.service.Confirm(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, confirmResponse{Status: http.StatusOK, PaymentStatus: paid})
}
