package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
)

// StockService defines business logic for manual stock adjustments and the
// movement ledger.
type StockService interface {
	AdjustStock(req AdjustStockRequest, userID int64) (*AdjustStockResult, error)
	GetMovements(filters models.StockMovementFilters) ([]models.StockMovement, int, error)
	CheckLedgerConsistency(productID int64) (*LedgerCheckResult, error)
}

type stockService struct {
	productRepo  repositories.ProductRepository
	movementRepo repositories.StockMovementRepository
	db           *sql.DB
}

// NewStockService creates a new StockService.
func NewStockService(
	productRepo repositories.ProductRepository,
	movementRepo repositories.StockMovementRepository,
	db *sql.DB,
) StockService {
	return &stockService{productRepo: productRepo, movementRepo: movementRepo, db: db}
}

// AdjustStockRequest defines the payload for a manual stock adjustment.
// Delta is signed: positive receives stock, negative writes it off.
type AdjustStockRequest struct {
	ProductID int64  `json:"-"`
	Delta     int    `json:"delta" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// AdjustStockResult reports the quantity before and after the adjustment.
// AppliedDelta can be smaller in magnitude than the requested delta when a
// write-off was clamped at zero.
type AdjustStockResult struct {
	ProductID    int64 `json:"product_id"`
	PreviousQty  int   `json:"previous_quantity"`
	NewQty       int   `json:"new_quantity"`
	AppliedDelta int   `json:"applied_delta"`
}

// LedgerCheckResult compares the cached quantity against the ledger sum.
type LedgerCheckResult struct {
	ProductID     int64 `json:"product_id"`
	StockQuantity int   `json:"stock_quantity"`
	LedgerSum     int   `json:"ledger_sum"`
	Consistent    bool  `json:"consistent"`
}

// AdjustStock applies a signed delta to a product under a row lock and
// appends the matching ledger entry. A negative delta larger than the
// quantity on hand is clamped so stock never goes below zero; the ledger
// records the delta actually applied.
func (s *stockService) AdjustStock(req AdjustStockRequest, userID int64) (*AdjustStockResult, error) {
	if req.ProductID <= 0 {
		return nil, fmt.Errorf("%w: product id is required", ErrValidation)
	}
	if req.Delta == 0 {
		return nil, fmt.Errorf("%w: delta cannot be zero", ErrValidation)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: starting transaction: %v", ErrInternal, err)
	}
	defer tx.Rollback()

	product, err := s.productRepo.GetProductForUpdate(tx, req.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: locking product: %v", ErrInternal, err)
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}

	applied := req.Delta
	if applied < -product.StockQuantity {
		applied = -product.StockQuantity
	}
	if applied == 0 {
		// Write-off against an already empty product: the clamp turns it
		// into a no-op. No movement is appended, the ledger stays intact.
		return &AdjustStockResult{
			ProductID:    req.ProductID,
			PreviousQty:  product.StockQuantity,
			NewQty:       product.StockQuantity,
			AppliedDelta: 0,
		}, nil
	}

	newQty, err := s.productRepo.UpdateStock(tx, req.ProductID, applied)
	if err != nil {
		return nil, fmt.Errorf("%w: updating stock: %v", ErrInternal, err)
	}

	movementType := models.MovementTypeIn
	if applied < 0 {
		movementType = models.MovementTypeOut
	}
	reason := strings.TrimSpace(req.Reason)
	movement := &models.StockMovement{
		ProductID:      req.ProductID,
		UserID:         &userID,
		MovementType:   movementType,
		QuantityChange: applied,
		Reason:         &reason,
	}
	if _, err := s.movementRepo.CreateMovement(tx, movement); err != nil {
		return nil, fmt.Errorf("%w: recording stock movement: %v", ErrInternal, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing transaction: %v", ErrInternal, err)
	}

	return &AdjustStockResult{
		ProductID:    req.ProductID,
		PreviousQty:  product.StockQuantity,
		NewQty:       newQty,
		AppliedDelta: applied,
	}, nil
}

func (s *stockService) GetMovements(filters models.StockMovementFilters) ([]models.StockMovement, int, error) {
	if filters.PageSize <= 0 {
		filters.PageSize = 50
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.MovementType != nil && *filters.MovementType != "" {
		if *filters.MovementType != models.MovementTypeIn && *filters.MovementType != models.MovementTypeOut {
			return nil, 0, fmt.Errorf("%w: movement type must be 'in' or 'out'", ErrValidation)
		}
	}
	movements, total, err := s.movementRepo.GetMovements(s.db, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: listing stock movements: %v", ErrInternal, err)
	}
	return movements, total, nil
}

// CheckLedgerConsistency recomputes a product's quantity from its ledger and
// compares it with the cached value.
func (s *stockService) CheckLedgerConsistency(productID int64) (*LedgerCheckResult, error) {
	product, err := s.productRepo.GetProductByID(s.db, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: getting product: %v", ErrInternal, err)
	}
	sum, err := s.movementRepo.SumQuantityByProduct(s.db, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: summing ledger: %v", ErrInternal, err)
	}
	return &LedgerCheckResult{
		ProductID:     productID,
		StockQuantity: product.StockQuantity,
		LedgerSum:     sum,
		Consistent:    product.StockQuantity == sum,
	}, nil
}
