package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pos_backend/internal/services"
	"pos_backend/pkg/utils"
)

// CartHandlers holds dependencies for session cart endpoints.
type CartHandlers struct {
	cartService services.CartService
}

// NewCartHandlers creates new CartHandlers.
func NewCartHandlers(cartService services.CartService) *CartHandlers {
	return &CartHandlers{cartService: cartService}
}

// sessionID resolves the cart session: an explicit X-Session-Id header wins,
// otherwise each authenticated user gets a personal session.
func sessionID(c *gin.Context) string {
	if sid := c.GetHeader("X-Session-Id"); sid != "" {
		return sid
	}
	if raw, exists := c.Get("userID"); exists {
		if id, ok := raw.(int64); ok {
			return "user-" + utils.Int64ToStr(id)
		}
	}
	return ""
}

// GetCart handles GET /cart.
func (h *CartHandlers) GetCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(c.Request.Context(), sessionID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddItem handles POST /cart/items.
func (h *CartHandlers) AddItem(c *gin.Context) {
	var req services.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), sessionID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

// UpdateItem handles PATCH /cart/items/:productId.
func (h *CartHandlers) UpdateItem(c *gin.Context) {
	productID, ok := idParam(c, "productId")
	if !ok {
		return
	}
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	cart, err := h.cartService.UpdateItemQuantity(c.Request.Context(), sessionID(c), productID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItem handles DELETE /cart/items/:productId.
func (h *CartHandlers) RemoveItem(c *gin.Context) {
	productID, ok := idParam(c, "productId")
	if !ok {
		return
	}
	cart, err := h.cartService.RemoveItem(c.Request.Context(), sessionID(c), productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ClearCart handles DELETE /cart.
func (h *CartHandlers) ClearCart(c *gin.Context) {
	if err := h.cartService.ClearCart(c.Request.Context(), sessionID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// Checkout handles POST /cart/checkout.
func (h *CartHandlers) Checkout(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	order, err := h.cartService.Checkout(c.Request.Context(), sessionID(c), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}
