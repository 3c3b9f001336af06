package repositories

import (
	"fmt"

	"pos_backend/internal/models"
)

// ReportRepository defines read-only aggregation queries over completed sales.
type ReportRepository interface {
	SalesByPaymentMethod(exec SQLExecutor, startDate, endDate string) ([]models.SalesByMethodRow, error)
	SalesSummary(exec SQLExecutor, startDate, endDate string) (*models.SalesSummary, error)
	LowStockProducts(exec SQLExecutor) ([]models.LowStockRow, error)
}

type reportRepository struct{}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository() ReportRepository {
	return &reportRepository{}
}

// SalesByPaymentMethod groups successful payments of completed orders by
// calendar date and method. Dates are half-open: [startDate, endDate+1).
func (r *reportRepository) SalesByPaymentMethod(exec SQLExecutor, startDate, endDate string) ([]models.SalesByMethodRow, error) {
	query := `
		SELECT to_char(p.created_at::date, 'YYYY-MM-DD') AS day,
		       p.method,
		       COALESCE(SUM(p.amount), 0),
		       COUNT(*)
		FROM payments p
		JOIN orders o ON o.id = p.order_id
		WHERE p.status = 'successful'
		  AND o.status = 'completed'
		  AND p.created_at >= $1::date
		  AND p.created_at < $2::date + INTERVAL '1 day'
		GROUP BY day, p.method
		ORDER BY day DESC, p.method ASC`
	rows, err := exec.Query(query, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sales by payment method: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	report := []models.SalesByMethodRow{}
	for rows.Next() {
		var row models.SalesByMethodRow
		if err := rows.Scan(&row.Date, &row.PaymentMethod, &row.TotalAmount, &row.PaymentsCount); err != nil {
			return nil, fmt.Errorf("%w: scanning sales report row: %v", ErrDatabaseError, err)
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sales report rows: %v", ErrDatabaseError, err)
	}
	return report, nil
}

func (r *reportRepository) SalesSummary(exec SQLExecutor, startDate, endDate string) (*models.SalesSummary, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM orders
		WHERE status = 'completed'
		  AND created_at >= $1::date
		  AND created_at < $2::date + INTERVAL '1 day'`
	summary := &models.SalesSummary{StartDate: startDate, EndDate: endDate}
	err := exec.QueryRow(query, startDate, endDate).Scan(&summary.TotalSales, &summary.OrdersCount)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sales summary: %v", ErrDatabaseError, err)
	}
	return summary, nil
}

func (r *reportRepository) LowStockProducts(exec SQLExecutor) ([]models.LowStockRow, error) {
	query := `
		SELECT id, name, barcode, stock_quantity, low_stock_threshold
		FROM products
		WHERE is_active = TRUE
		  AND low_stock_threshold IS NOT NULL
		  AND stock_quantity <= low_stock_threshold
		ORDER BY stock_quantity ASC, name ASC`
	rows, err := exec.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying low stock products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	report := []models.LowStockRow{}
	for rows.Next() {
		var row models.LowStockRow
		if err := rows.Scan(&row.ProductID, &row.Name, &row.Barcode, &row.StockQuantity, &row.LowStockThreshold); err != nil {
			return nil, fmt.Errorf("%w: scanning low stock row: %v", ErrDatabaseError, err)
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating low stock rows: %v", ErrDatabaseError, err)
	}
	return report, nil
}
