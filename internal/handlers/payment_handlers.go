package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pos_backend/internal/services"
	"pos_backend/pkg/utils"
)

// PaymentHandlers holds dependencies for payment settlement endpoints.
type PaymentHandlers struct {
	paymentService services.PaymentService
}

// NewPaymentHandlers creates new PaymentHandlers.
func NewPaymentHandlers(paymentService services.PaymentService) *PaymentHandlers {
	return &PaymentHandlers{paymentService: paymentService}
}

// VerifyGatewayPayment handles POST /orders/:id/verify-payment.
func (h *PaymentHandlers) VerifyGatewayPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.paymentService.VerifyGatewayPayment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// RecordTransferPayment handles POST /orders/:id/transfer-payment.
func (h *PaymentHandlers) RecordTransferPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.TransferPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	req.OrderID = id

	order, err := h.paymentService.RecordTransferPayment(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetPayment handles GET /orders/:id/payment.
func (h *PaymentHandlers) GetPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	payment, err := h.paymentService.GetPaymentByOrderID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}
