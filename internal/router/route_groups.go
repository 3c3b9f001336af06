package router

import (
	"github.com/gin-gonic/gin"

	"pos_backend/internal/handlers"
	"pos_backend/internal/middleware"
	"pos_backend/internal/models"
)

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandlers) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/me", middleware.AuthMiddleware(), h.Me)
	}
}

func registerProductRoutes(api *gin.RouterGroup, h *handlers.ProductHandlers, stock *handlers.StockHandlers) {
	products := api.Group("/products")
	products.Use(middleware.AuthMiddleware())
	{
		products.GET("", h.GetProducts)
		products.GET("/:id", h.GetProductByID)
		products.GET("/barcode/:code", h.FindByBarcode)

		products.POST("", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleInventory), h.CreateProduct)
		products.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleInventory), h.UpdateProduct)
		products.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), h.DeleteProduct)

		products.POST("/:id/stock-adjustments", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleInventory), stock.AdjustStock)
		products.GET("/:id/ledger-check", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleInventory), stock.CheckLedger)
	}
}

func registerStockRoutes(api *gin.RouterGroup, h *handlers.StockHandlers) {
	api.GET("/stock-movements",
		middleware.AuthMiddleware(),
		middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleInventory),
		h.GetMovements)
}

func registerCartRoutes(api *gin.RouterGroup, h *handlers.CartHandlers) {
	cart := api.Group("/cart")
	cart.Use(middleware.AuthMiddleware())
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/items", h.AddItem)
		cart.PATCH("/items/:productId", h.UpdateItem)
		cart.DELETE("/items/:productId", h.RemoveItem)
		cart.POST("/checkout", h.Checkout)
	}
}

func registerOrderRoutes(api *gin.RouterGroup, h *handlers.OrderHandlers, payments *handlers.PaymentHandlers) {
	orders := api.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.GetOrders)
		orders.GET("/:id", h.GetOrderByID)

		orders.POST("/:id/confirm-payment", h.ConfirmPayment)
		orders.POST("/:id/confirm-correction", middleware.RoleAuthMiddleware(models.RoleAdmin), h.ConfirmCorrection)

		orders.POST("/:id/verify-payment", payments.VerifyGatewayPayment)
		orders.POST("/:id/transfer-payment", payments.RecordTransferPayment)
		orders.GET("/:id/payment", payments.GetPayment)
	}
}

func registerCustomerRoutes(api *gin.RouterGroup, h *handlers.CustomerHandlers) {
	customers := api.Group("/customers")
	customers.Use(middleware.AuthMiddleware())
	{
		customers.GET("", h.GetCustomers)
		customers.GET("/:id", h.GetCustomerByID)
		customers.POST("", h.CreateCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), h.DeleteCustomer)
	}
}

func registerReportRoutes(api *gin.RouterGroup, h *handlers.ReportHandlers) {
	reports := api.Group("/reports")
	reports.Use(middleware.AuthMiddleware(), middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		reports.GET("/sales", h.SalesByPaymentMethod)
		reports.GET("/sales-summary", h.SalesSummary)
		reports.GET("/low-stock", h.LowStockProducts)
	}
}
