package models

import "time"

// Order is a customer purchase owned by the cashier who created it.
// Status only ever moves pending -> completed; total_amount is fixed at
// creation time as the sum of its item totals.
type Order struct {
	ID             int64       `json:"id" db:"id"`
	UserID         int64       `json:"user_id" db:"user_id"`
	CustomerID     *int64      `json:"customer_id,omitempty" db:"customer_id"`
	Status         string      `json:"status" db:"status"`
	TotalAmount    float64     `json:"total_amount" db:"total_amount"`
	PaymentMethod  string      `json:"payment_method" db:"payment_method"`
	TransactionRef *string     `json:"transaction_ref,omitempty" db:"transaction_ref"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
	OrderItems     []OrderItem `json:"order_items,omitempty"`
	Customer       *Customer   `json:"customer,omitempty"`
	CashierName    *string     `json:"cashier_name,omitempty"`
}

// OrderItem records one line of an order. unit_price is a snapshot taken at
// the time of sale, deliberately decoupled from the product's live price.
type OrderItem struct {
	ID         int64     `json:"id" db:"id"`
	OrderID    int64     `json:"order_id" db:"order_id"`
	ProductID  int64     `json:"product_id" db:"product_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	UnitPrice  float64   `json:"unit_price" db:"unit_price"`
	TotalPrice float64   `json:"total_price" db:"total_price"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	Product    *Product  `json:"product,omitempty"`
}

// Payment is the settlement record for an order. The payments table has a
// unique constraint on order_id, so an order can never carry more than one
// payment row; repeated confirmations converge on the same row.
type Payment struct {
	ID             int64     `json:"id" db:"id"`
	OrderID        int64     `json:"order_id" db:"order_id"`
	Amount         float64   `json:"amount" db:"amount"`
	Method         string    `json:"method" db:"method"`
	TransactionRef *string   `json:"transaction_ref,omitempty" db:"transaction_ref"`
	Status         string    `json:"status" db:"status"`
	PayerName      *string   `json:"payer_name,omitempty" db:"payer_name"`
	PayerPhone     *string   `json:"payer_phone,omitempty" db:"payer_phone"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

// Payment methods.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodGateway  = "gateway"
)

// Payment statuses.
const (
	PaymentStatusSuccessful = "successful"
	PaymentStatusFailed     = "failed"
)

// IsValidPaymentMethod reports whether the given method is one we accept.
func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodGateway:
		return true
	default:
		return false
	}
}

// OrderFilters defines the available filters for querying orders.
type OrderFilters struct {
	UserID     *int64  `form:"user_id"`
	CustomerID *int64  `form:"customer_id"`
	Status     *string `form:"status"`
	Date       *string `form:"date"` // Expected format YYYY-MM-DD
	Page       int     `form:"page"`
	PageSize   int     `form:"page_size"`
}
