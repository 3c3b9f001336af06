package services

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
)

// Client-supplied totals are a checksum against the server-side sum; allow
// for float rounding on the wire.
const totalTolerance = 0.005

// OrderService defines business logic for the order lifecycle.
type OrderService interface {
	CreateOrder(req CreateOrderRequest, userID int64) (*models.Order, error)
	GetOrderByID(id int64) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	ConfirmPayment(orderID int64) (*models.Order, error)
	ConfirmCorrection(orderID int64) (*models.Order, error)
}

type orderService struct {
	orderRepo    repositories.OrderRepository
	productRepo  repositories.ProductRepository
	movementRepo repositories.StockMovementRepository
	paymentRepo  repositories.PaymentRepository
	db           *sql.DB
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	movementRepo repositories.StockMovementRepository,
	paymentRepo repositories.PaymentRepository,
	db *sql.DB,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		paymentRepo:  paymentRepo,
		db:           db,
	}
}

// CreateOrderRequest defines the payload for creating an order.
type CreateOrderRequest struct {
	CustomerID    *int64                   `json:"customer_id,omitempty"`
	PaymentMethod string                   `json:"payment_method" binding:"required"`
	TotalAmount   *float64                 `json:"total_amount,omitempty"`
	Items         []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItemRequest is one line of a new order.
type CreateOrderItemRequest struct {
	ProductID int64   `json:"product_id" binding:"required,gt=0"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" binding:"required,gt=0"`
}

func (s *orderService) validateCreateRequest(req CreateOrderRequest) (float64, error) {
	if !models.IsValidPaymentMethod(req.PaymentMethod) {
		return 0, fmt.Errorf("%w: unknown payment method '%s'", ErrValidation, req.PaymentMethod)
	}
	if len(req.Items) == 0 {
		return 0, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}

	var total float64
	for i, item := range req.Items {
		if item.ProductID <= 0 {
			return 0, fmt.Errorf("%w: item %d: product id is required", ErrValidation, i)
		}
		if item.Quantity <= 0 {
			return 0, fmt.Errorf("%w: item %d: quantity must be positive", ErrValidation, i)
		}
		if item.UnitPrice <= 0 {
			return 0, fmt.Errorf("%w: item %d: unit price must be positive", ErrValidation, i)
		}
		total += item.UnitPrice * float64(item.Quantity)
	}

	// The client total, when present, is only a checksum; the stored total
	// is always the server-side sum of the lines.
	if req.TotalAmount != nil && math.Abs(*req.TotalAmount-total) > totalTolerance {
		return 0, fmt.Errorf("%w: total amount %.2f does not match sum of items %.2f", ErrValidation, *req.TotalAmount, total)
	}
	return total, nil
}

func newTransactionRef() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "POS-" + hex.EncodeToString(buf), nil
}

// CreateOrder atomically creates a pending order, its items and the stock
// decrements. Product rows are locked for the duration, so two concurrent
// orders cannot both sell the last unit. Any failure rolls everything back.
func (s *orderService) CreateOrder(req CreateOrderRequest, userID int64) (*models.Order, error) {
	total, err := s.validateCreateRequest(req)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: starting transaction: %v", ErrInternal, err)
	}
	defer tx.Rollback()

	// Lock and check every product before writing anything.
	lockedProducts := make(map[int64]*models.Product, len(req.Items))
	for _, item := range req.Items {
		if _, seen := lockedProducts[item.ProductID]; seen {
			return nil, fmt.Errorf("%w: product %d appears more than once", ErrValidation, item.ProductID)
		}
		product, err := s.productRepo.GetProductForUpdate(tx, item.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, item.ProductID)
			}
			return nil, fmt.Errorf("%w: locking product %d: %v", ErrInternal, item.ProductID, err)
		}
		if !product.IsActive {
			return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, item.ProductID)
		}
		if product.StockQuantity < item.Quantity {
			return nil, fmt.Errorf("%w: product '%s' has %d left, %d requested",
				ErrInsufficientStock, product.Name, product.StockQuantity, item.Quantity)
		}
		lockedProducts[item.ProductID] = product
	}

	order := &models.Order{
		UserID:        userID,
		CustomerID:    req.CustomerID,
		Status:        models.OrderStatusPending,
		TotalAmount:   total,
		PaymentMethod: req.PaymentMethod,
	}
	if req.PaymentMethod == models.PaymentMethodGateway {
		ref, err := newTransactionRef()
		if err != nil {
			return nil, fmt.Errorf("%w: generating transaction ref: %v", ErrInternal, err)
		}
		order.TransactionRef = &ref
	}
	if _, err := s.orderRepo.CreateOrder(tx, order); err != nil {
		return nil, fmt.Errorf("%w: creating order: %v", ErrInternal, err)
	}

	for _, item := range req.Items {
		orderItem := &models.OrderItem{
			OrderID:    order.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.UnitPrice * float64(item.Quantity),
		}
		if _, err := s.orderRepo.CreateOrderItem(tx, orderItem); err != nil {
			return nil, fmt.Errorf("%w: creating order item: %v", ErrInternal, err)
		}

		if _, err := s.productRepo.UpdateStock(tx, item.ProductID, -item.Quantity); err != nil {
			return nil, fmt.Errorf("%w: decrementing stock for product %d: %v", ErrInternal, item.ProductID, err)
		}
		reason := fmt.Sprintf("order #%d", order.ID)
		movement := &models.StockMovement{
			ProductID:      item.ProductID,
			UserID:         &userID,
			MovementType:   models.MovementTypeOut,
			QuantityChange: -item.Quantity,
			Reason:         &reason,
		}
		if _, err := s.movementRepo.CreateMovement(tx, movement); err != nil {
			return nil, fmt.Errorf("%w: recording stock movement: %v", ErrInternal, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing transaction: %v", ErrInternal, err)
	}
	return s.GetOrderByID(order.ID)
}

func (s *orderService) GetOrderByID(id int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: getting order: %v", ErrInternal, err)
	}
	return order, nil
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	if filters.PageSize <= 0 {
		filters.PageSize = 50
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	orders, total, err := s.orderRepo.GetOrders(s.db, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: listing orders: %v", ErrInternal, err)
	}
	return orders, total, nil
}

// ConfirmPayment completes a pending order. Cash orders get their
// successful payment upserted in the same transaction; non-cash orders only
// flip status, their payment rows are written by the payment flow
// (gateway verification or the manual transfer entry). Confirming an
// already completed order is rejected without touching anything.
func (s *orderService) ConfirmPayment(orderID int64) (*models.Order, error) {
	return s.complete(orderID)
}

// ConfirmCorrection is an alias of ConfirmPayment kept as its own endpoint
// for audit trails.
func (s *orderService) ConfirmCorrection(orderID int64) (*models.Order, error) {
	return s.complete(orderID)
}

func (s *orderService) complete(orderID int64) (*models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: starting transaction: %v", ErrInternal, err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetOrderForUpdate(tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: locking order: %v", ErrInternal, err)
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order %d is already %s", ErrInvalidOrderStatus, orderID, order.Status)
	}

	if err := s.orderRepo.UpdateOrderStatus(tx, orderID, models.OrderStatusCompleted); err != nil {
		return nil, fmt.Errorf("%w: completing order: %v", ErrInternal, err)
	}

	if order.PaymentMethod == models.PaymentMethodCash {
		payment := &models.Payment{
			OrderID:        orderID,
			Amount:         order.TotalAmount,
			Method:         order.PaymentMethod,
			TransactionRef: order.TransactionRef,
			Status:         models.PaymentStatusSuccessful,
		}
		if _, err := s.paymentRepo.UpsertPayment(tx, payment); err != nil {
			return nil, fmt.Errorf("%w: recording payment: %v", ErrInternal, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing transaction: %v", ErrInternal, err)
	}
	return s.GetOrderByID(orderID)
}
