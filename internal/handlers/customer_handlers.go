package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pos_backend/internal/services"
	"pos_backend/pkg/utils"
)

// CustomerHandlers holds dependencies for customer directory endpoints.
type CustomerHandlers struct {
	customerService services.CustomerService
}

// NewCustomerHandlers creates new CustomerHandlers.
func NewCustomerHandlers(customerService services.CustomerService) *CustomerHandlers {
	return &CustomerHandlers{customerService: customerService}
}

// CreateCustomer handles POST /customers.
func (h *CustomerHandlers) CreateCustomer(c *gin.Context) {
	var req services.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	customer, err := h.customerService.CreateCustomer(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// GetCustomers handles GET /customers.
func (h *CustomerHandlers) GetCustomers(c *gin.Context) {
	var search *string
	if s := c.Query("search"); s != "" {
		search = &s
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	customers, total, err := h.customerService.GetCustomers(search, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginatedResponse{
		Data:       customers,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// GetCustomerByID handles GET /customers/:id.
func (h *CustomerHandlers) GetCustomerByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.customerService.GetCustomerByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer handles PUT /customers/:id.
func (h *CustomerHandlers) UpdateCustomer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /customers/:id.
func (h *CustomerHandlers) DeleteCustomer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.customerService.DeleteCustomer(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}
