package models

// SalesByMethodRow is one row of the sales report: completed payments
// grouped by calendar date and payment method.
type SalesByMethodRow struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	PaymentMethod string  `json:"payment_method"`
	TotalAmount   float64 `json:"total_amount"`
	PaymentsCount int     `json:"payments_count"`
}

// SalesSummary aggregates completed sales over a date range.
type SalesSummary struct {
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	TotalSales  float64 `json:"total_sales"`
	OrdersCount int     `json:"orders_count"`
}

// LowStockRow lists an active product at or below its low stock threshold.
type LowStockRow struct {
	ProductID         int64  `json:"product_id"`
	Name              string `json:"name"`
	Barcode           string `json:"barcode"`
	StockQuantity     int    `json:"stock_quantity"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

// ReportRequestParams holds common query parameters for report endpoints.
type ReportRequestParams struct {
	StartDate string `form:"start_date"` // YYYY-MM-DD
	EndDate   string `form:"end_date"`   // YYYY-MM-DD
}
