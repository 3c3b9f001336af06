// Package router wires repositories, services and handlers onto the HTTP
// engine.
package router

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"pos_backend/internal/gateway"
	"pos_backend/internal/handlers"
	"pos_backend/internal/repositories"
	"pos_backend/internal/services"
)

// Dependencies carries everything Setup needs besides the engine.
type Dependencies struct {
	DB            *sql.DB
	Redis         *redis.Client
	GatewayClient gateway.Verifier
}

// Setup constructs the full dependency graph and registers all routes
// under /api/v1.
func Setup(engine *gin.Engine, deps Dependencies) {
	// Repositories
	userRepo := repositories.NewUserRepository()
	productRepo := repositories.NewProductRepository()
	movementRepo := repositories.NewStockMovementRepository()
	orderRepo := repositories.NewOrderRepository()
	paymentRepo := repositories.NewPaymentRepository()
	customerRepo := repositories.NewCustomerRepository()
	reportRepo := repositories.NewReportRepository()
	cartStore := repositories.NewCartStore(deps.Redis)

	// Services
	authService := services.NewAuthService(userRepo, deps.DB)
	productService := services.NewProductService(productRepo, movementRepo, deps.DB)
	stockService := services.NewStockService(productRepo, movementRepo, deps.DB)
	orderService := services.NewOrderService(orderRepo, productRepo, movementRepo, paymentRepo, deps.DB)
	paymentService := services.NewPaymentService(orderRepo, paymentRepo, deps.GatewayClient, deps.DB)
	cartService := services.NewCartService(cartStore, productRepo, orderService, deps.DB)
	customerService := services.NewCustomerService(customerRepo, deps.DB)
	reportService := services.NewReportService(reportRepo, deps.DB)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authService)
	productHandlers := handlers.NewProductHandlers(productService)
	stockHandlers := handlers.NewStockHandlers(stockService)
	orderHandlers := handlers.NewOrderHandlers(orderService)
	paymentHandlers := handlers.NewPaymentHandlers(paymentService)
	cartHandlers := handlers.NewCartHandlers(cartService)
	customerHandlers := handlers.NewCustomerHandlers(customerService)
	reportHandlers := handlers.NewReportHandlers(reportService)

	api := engine.Group("/api/v1")

	registerAuthRoutes(api, authHandlers)
	registerProductRoutes(api, productHandlers, stockHandlers)
	registerStockRoutes(api, stockHandlers)
	registerCartRoutes(api, cartHandlers)
	registerOrderRoutes(api, orderHandlers, paymentHandlers)
	registerCustomerRoutes(api, customerHandlers)
	registerReportRoutes(api, reportHandlers)
}
