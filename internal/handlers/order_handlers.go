package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pos_backend/internal/models"
	"pos_backend/internal/services"
	"pos_backend/pkg/utils"
)

// OrderHandlers holds dependencies for order lifecycle endpoints.
type OrderHandlers struct {
	orderService services.OrderService
}

// NewOrderHandlers creates new OrderHandlers.
func NewOrderHandlers(orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// CreateOrder handles POST /orders.
func (h *OrderHandlers) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	order, err := h.orderService.CreateOrder(req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrders handles GET /orders.
func (h *OrderHandlers) GetOrders(c *gin.Context) {
	var filters models.OrderFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	orders, total, err := h.orderService.GetOrders(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginatedResponse{
		Data:       orders,
		TotalCount: total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
	})
}

// GetOrderByID handles GET /orders/:id.
func (h *OrderHandlers) GetOrderByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrderByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ConfirmPayment handles POST /orders/:id/confirm-payment (cash orders).
func (h *OrderHandlers) ConfirmPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.ConfirmPayment(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ConfirmCorrection handles POST /orders/:id/confirm-correction: a manual
// override for orders settled out of band.
func (h *OrderHandlers) ConfirmCorrection(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.ConfirmCorrection(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
