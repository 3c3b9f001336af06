package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pos_backend/internal/models"
	"pos_backend/internal/services"
	"pos_backend/pkg/utils"
)

// ReportHandlers holds dependencies for reporting endpoints.
type ReportHandlers struct {
	reportService services.ReportService
}

// NewReportHandlers creates new ReportHandlers.
func NewReportHandlers(reportService services.ReportService) *ReportHandlers {
	return &ReportHandlers{reportService: reportService}
}

// SalesByPaymentMethod handles GET /reports/sales.
func (h *ReportHandlers) SalesByPaymentMethod(c *gin.Context) {
	var params models.ReportRequestParams
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	report, err := h.reportService.SalesByPaymentMethod(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

// SalesSummary handles GET /reports/sales-summary.
func (h *ReportHandlers) SalesSummary(c *gin.Context) {
	var params models.ReportRequestParams
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	summary, err := h.reportService.SalesSummary(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// LowStockProducts handles GET /reports/low-stock.
func (h *ReportHandlers) LowStockProducts(c *gin.Context) {
	report, err := h.reportService.LowStockProducts()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}
