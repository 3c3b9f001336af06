package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pos_backend/internal/models"
	"pos_backend/internal/services"
	"pos_backend/pkg/utils"
)

// ProductHandlers holds dependencies for product catalog endpoints.
type ProductHandlers struct {
	productService services.ProductService
}

// NewProductHandlers creates new ProductHandlers.
func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// CreateProduct handles POST /products.
func (h *ProductHandlers) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	product, err := h.productService.CreateProduct(req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetProducts handles GET /products.
func (h *ProductHandlers) GetProducts(c *gin.Context) {
	var filters models.ProductFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	products, total, err := h.productService.GetProducts(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginatedResponse{
		Data:       products,
		TotalCount: total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
	})
}

// GetProductByID handles GET /products/:id.
func (h *ProductHandlers) GetProductByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetProductByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct handles PUT /products/:id.
func (h *ProductHandlers) UpdateProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id (soft delete).
func (h *ProductHandlers) DeleteProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.productService.DeactivateProduct(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deactivated"})
}

// FindByBarcode handles GET /products/barcode/:code.
func (h *ProductHandlers) FindByBarcode(c *gin.Context) {
	products, err := h.productService.FindByBarcode(c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}
