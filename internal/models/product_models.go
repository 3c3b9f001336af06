package models

import "time"

// Product is a sellable item in the catalog. Quantity on hand is mutated
// only through stock movements; the product row itself is never hard
// deleted so historical orders keep a valid reference.
type Product struct {
	ID                int64     `json:"id" db:"id"`
	Name              string    `json:"name" db:"name" binding:"required"`
	Barcode           string    `json:"barcode" db:"barcode" binding:"required"`
	Description       *string   `json:"description,omitempty" db:"description"`
	Price             float64   `json:"price" db:"price" binding:"required,gt=0"`
	StockQuantity     int       `json:"stock_quantity" db:"stock_quantity"`
	LowStockThreshold *int      `json:"low_stock_threshold,omitempty" db:"low_stock_threshold"`
	IsActive          bool      `json:"is_active" db:"is_active"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// StockMovement is one immutable entry in the stock ledger. Rows are only
// ever appended; the running sum of quantity_change per product equals the
// product's current stock_quantity.
type StockMovement struct {
	ID             int64     `json:"id" db:"id"`
	ProductID      int64     `json:"product_id" db:"product_id" binding:"required"`
	UserID         *int64    `json:"user_id,omitempty" db:"user_id"`
	MovementType   string    `json:"movement_type" db:"movement_type"` // in | out
	QuantityChange int       `json:"quantity_change" db:"quantity_change"`
	Reason         *string   `json:"reason,omitempty" db:"reason"`
	MovementDate   time.Time `json:"movement_date" db:"movement_date"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	Product        *Product  `json:"product,omitempty"`
	User           *User     `json:"user,omitempty"`
}

// Stock movement directions.
const (
	MovementTypeIn  = "in"
	MovementTypeOut = "out"
)

// ProductFilters defines the available filters for querying products.
type ProductFilters struct {
	Search     *string `form:"search"`
	ActiveOnly bool    `form:"active_only"`
	LowStock   bool    `form:"low_stock"`
	Page       int     `form:"page"`
	PageSize   int     `form:"page_size"`
}

// StockMovementFilters defines the available filters for querying the ledger.
type StockMovementFilters struct {
	ProductID    *int64  `form:"product_id"`
	UserID       *int64  `form:"user_id"`
	MovementType *string `form:"movement_type"`
	Page         int     `form:"page"`
	PageSize     int     `form:"page_size"`
}
