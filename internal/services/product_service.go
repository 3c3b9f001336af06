package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
)

// ProductService defines business logic for the product catalog.
type ProductService interface {
	CreateProduct(req CreateProductRequest, userID int64) (*models.Product, error)
	GetProductByID(id int64) (*models.Product, error)
	GetProducts(filters models.ProductFilters) ([]models.Product, int, error)
	UpdateProduct(id int64, req UpdateProductRequest) (*models.Product, error)
	DeactivateProduct(id int64) error
	FindByBarcode(code string) ([]models.Product, error)
}

type productService struct {
	productRepo  repositories.ProductRepository
	movementRepo repositories.StockMovementRepository
	db           *sql.DB
}

// NewProductService creates a new ProductService.
func NewProductService(
	productRepo repositories.ProductRepository,
	movementRepo repositories.StockMovementRepository,
	db *sql.DB,
) ProductService {
	return &productService{productRepo: productRepo, movementRepo: movementRepo, db: db}
}

// CreateProductRequest defines the payload for creating a product.
type CreateProductRequest struct {
	Name              string  `json:"name" binding:"required"`
	Barcode           string  `json:"barcode" binding:"required"`
	Description       *string `json:"description,omitempty"`
	Price             float64 `json:"price" binding:"required,gt=0"`
	InitialQuantity   int     `json:"initial_quantity" binding:"gte=0"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty" binding:"omitempty,gte=0"`
}

// UpdateProductRequest defines the payload for updating a product. Stock
// quantity is deliberately absent; it changes only through stock
// adjustments and sales.
type UpdateProductRequest struct {
	Name              string  `json:"name" binding:"required"`
	Barcode           string  `json:"barcode" binding:"required"`
	Description       *string `json:"description,omitempty"`
	Price             float64 `json:"price" binding:"required,gt=0"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty" binding:"omitempty,gte=0"`
}

// CreateProduct inserts the product and, when an opening quantity is given,
// the matching ledger entry in one transaction.
func (s *productService) CreateProduct(req CreateProductRequest, userID int64) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Barcode) == "" {
		return nil, fmt.Errorf("%w: name and barcode are required", ErrValidation)
	}
	if req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if req.InitialQuantity < 0 {
		return nil, fmt.Errorf("%w: initial quantity cannot be negative", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: starting transaction: %v", ErrInternal, err)
	}
	defer tx.Rollback()

	product := &models.Product{
		Name:              strings.TrimSpace(req.Name),
		Barcode:           strings.TrimSpace(req.Barcode),
		Description:       req.Description,
		Price:             req.Price,
		StockQuantity:     req.InitialQuantity,
		LowStockThreshold: req.LowStockThreshold,
	}
	if _, err := s.productRepo.CreateProduct(tx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: barcode '%s' already in use", ErrDuplicate, product.Barcode)
		}
		return nil, fmt.Errorf("%w: creating product: %v", ErrInternal, err)
	}

	if req.InitialQuantity > 0 {
		reason := "opening stock"
		movement := &models.StockMovement{
			ProductID:      product.ID,
			UserID:         &userID,
			MovementType:   models.MovementTypeIn,
			QuantityChange: req.InitialQuantity,
			Reason:         &reason,
		}
		if _, err := s.movementRepo.CreateMovement(tx, movement); err != nil {
			return nil, fmt.Errorf("%w: recording opening stock: %v", ErrInternal, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing transaction: %v", ErrInternal, err)
	}
	return s.GetProductByID(product.ID)
}

func (s *productService) GetProductByID(id int64) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: getting product: %v", ErrInternal, err)
	}
	return product, nil
}

func (s *productService) GetProducts(filters models.ProductFilters) ([]models.Product, int, error) {
	if filters.PageSize <= 0 {
		filters.PageSize = 50
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	products, total, err := s.productRepo.GetProducts(s.db, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: listing products: %v", ErrInternal, err)
	}
	return products, total, nil
}

func (s *productService) UpdateProduct(id int64, req UpdateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Barcode) == "" {
		return nil, fmt.Errorf("%w: name and barcode are required", ErrValidation)
	}
	if req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}

	product := &models.Product{
		ID:                id,
		Name:              strings.TrimSpace(req.Name),
		Barcode:           strings.TrimSpace(req.Barcode),
		Description:       req.Description,
		Price:             req.Price,
		LowStockThreshold: req.LowStockThreshold,
	}
	if err := s.productRepo.UpdateProduct(s.db, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: barcode '%s' already in use", ErrDuplicate, product.Barcode)
		}
		return nil, fmt.Errorf("%w: updating product: %v", ErrInternal, err)
	}
	return s.GetProductByID(id)
}

// DeactivateProduct soft deletes: the row stays so historical order items
// keep a valid product reference.
func (s *productService) DeactivateProduct(id int64) error {
	if err := s.productRepo.DeactivateProduct(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("%w: deactivating product: %v", ErrInternal, err)
	}
	return nil
}

func (s *productService) FindByBarcode(code string) ([]models.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: barcode is required", ErrValidation)
	}
	products, err := s.productRepo.FindByBarcode(s.db, code)
	if err != nil {
		return nil, fmt.Errorf("%w: searching by barcode: %v", ErrInternal, err)
	}
	return products, nil
}
