package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
)

// CartService defines business logic for the cashier's session cart.
type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*models.Cart, error)
	AddItem(ctx context.Context, sessionID string, req AddCartItemRequest) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, sessionID string, productID int64) (*models.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
	Checkout(ctx context.Context, sessionID string, req CheckoutRequest, userID int64) (*models.Order, error)
}

type cartService struct {
	store        repositories.CartStore
	productRepo  repositories.ProductRepository
	orderService OrderService
	db           *sql.DB
}

// NewCartService creates a new CartService.
func NewCartService(
	store repositories.CartStore,
	productRepo repositories.ProductRepository,
	orderService OrderService,
	db *sql.DB,
) CartService {
	return &cartService{store: store, productRepo: productRepo, orderService: orderService, db: db}
}

// AddCartItemRequest adds a product to the cart, addressed either by id or
// by exact barcode (scanner input).
type AddCartItemRequest struct {
	ProductID int64  `json:"product_id,omitempty"`
	Barcode   string `json:"barcode,omitempty"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CheckoutRequest turns the cart into an order.
type CheckoutRequest struct {
	CustomerID    *int64 `json:"customer_id,omitempty"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

func (s *cartService) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrValidation)
	}
	cart, err := s.store.GetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading cart: %v", ErrInternal, err)
	}
	return cart, nil
}

func (s *cartService) resolveProduct(req AddCartItemRequest) (*models.Product, error) {
	if req.ProductID > 0 {
		product, err := s.productRepo.GetProductByID(s.db, req.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("%w: getting product: %v", ErrInternal, err)
		}
		if !product.IsActive {
			return nil, ErrProductNotFound
		}
		return product, nil
	}
	if code := strings.TrimSpace(req.Barcode); code != "" {
		product, err := s.productRepo.GetProductByBarcode(s.db, code)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("%w: getting product by barcode: %v", ErrInternal, err)
		}
		return product, nil
	}
	return nil, fmt.Errorf("%w: product_id or barcode is required", ErrValidation)
}

// AddItem puts a product into the cart, snapshotting its name and current
// price. Adding a product already in the cart increments its line. Stock is
// not reserved here; availability is enforced at checkout.
func (s *cartService) AddItem(ctx context.Context, sessionID string, req AddCartItemRequest) (*models.Cart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrValidation)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	product, err := s.resolveProduct(req)
	if err != nil {
		return nil, err
	}

	cart, err := s.store.GetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading cart: %v", ErrInternal, err)
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == product.ID {
			cart.Items[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  req.Quantity,
		})
	}

	if err := s.store.SaveCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("%w: saving cart: %v", ErrInternal, err)
	}
	return cart, nil
}

// UpdateItemQuantity sets the quantity of a cart line; zero removes it.
func (s *cartService) UpdateItemQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (*models.Cart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrValidation)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}

	cart, err := s.store.GetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading cart: %v", ErrInternal, err)
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: product %d is not in the cart", ErrProductNotFound, productID)
	}

	if quantity == 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = quantity
	}

	if err := s.store.SaveCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("%w: saving cart: %v", ErrInternal, err)
	}
	return cart, nil
}

func (s *cartService) RemoveItem(ctx context.Context, sessionID string, productID int64) (*models.Cart, error) {
	return s.UpdateItemQuantity(ctx, sessionID, productID, 0)
}

func (s *cartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", ErrValidation)
	}
	if err := s.store.DeleteCart(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: clearing cart: %v", ErrInternal, err)
	}
	return nil
}

// Checkout converts the cart into an order and destroys the cart on
// success. Stock checks, locking and ledger writes all happen inside
// CreateOrder; a failed checkout leaves the cart untouched for another try.
func (s *cartService) Checkout(ctx context.Context, sessionID string, req CheckoutRequest, userID int64) (*models.Order, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrValidation)
	}

	cart, err := s.store.GetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading cart: %v", ErrInternal, err)
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	orderReq := CreateOrderRequest{
		CustomerID:    req.CustomerID,
		PaymentMethod: req.PaymentMethod,
		Items:         make([]CreateOrderItemRequest, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		orderReq.Items = append(orderReq.Items, CreateOrderItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order, err := s.orderService.CreateOrder(orderReq, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteCart(ctx, sessionID); err != nil {
		// The order exists; losing the delete only leaves a stale cart
		// that expires on its own.
		return order, nil
	}
	return order, nil
}
