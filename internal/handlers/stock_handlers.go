package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pos_backend/internal/models"
	"pos_backend/internal/services"
	"pos_backend/pkg/utils"
)

// StockHandlers holds dependencies for stock adjustment and ledger endpoints.
type StockHandlers struct {
	stockService services.StockService
}

// NewStockHandlers creates new StockHandlers.
func NewStockHandlers(stockService services.StockService) *StockHandlers {
	return &StockHandlers{stockService: stockService}
}

// AdjustStock handles POST /products/:id/stock-adjustments.
func (h *StockHandlers) AdjustStock(c *gin.Context) {
	productID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	req.ProductID = productID

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.stockService.AdjustStock(req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetMovements handles GET /stock-movements.
func (h *StockHandlers) GetMovements(c *gin.Context) {
	var filters models.StockMovementFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	movements, total, err := h.stockService.GetMovements(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginatedResponse{
		Data:       movements,
		TotalCount: total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
	})
}

// CheckLedger handles GET /products/:id/ledger-check.
func (h *StockHandlers) CheckLedger(c *gin.Context) {
	productID, ok := idParam(c, "id")
	if !ok {
		return
	}
	result, err := h.stockService.CheckLedgerConsistency(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
