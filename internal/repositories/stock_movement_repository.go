package repositories

import (
	"fmt"
	"strings"

	"pos_backend/internal/models"
)

// StockMovementRepository defines methods for the append-only stock ledger.
type StockMovementRepository interface {
	CreateMovement(exec SQLExecutor, movement *models.StockMovement) (int64, error)
	GetMovements(exec SQLExecutor, filters models.StockMovementFilters) ([]models.StockMovement, int, error)
	SumQuantityByProduct(exec SQLExecutor, productID int64) (int, error)
}

type stockMovementRepository struct{}

// NewStockMovementRepository creates a new instance of StockMovementRepository.
func NewStockMovementRepository() StockMovementRepository {
	return &stockMovementRepository{}
}

func (r *stockMovementRepository) CreateMovement(exec SQLExecutor, movement *models.StockMovement) (int64, error) {
	query := `
		INSERT INTO stock_movements (product_id, user_id, movement_type, quantity_change, reason, movement_date)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id`
	err := exec.QueryRow(query,
		movement.ProductID, movement.UserID, movement.MovementType,
		movement.QuantityChange, movement.Reason,
	).Scan(&movement.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating stock movement: %v", ErrDatabaseError, err)
	}
	return movement.ID, nil
}

func (r *stockMovementRepository) GetMovements(exec SQLExecutor, filters models.StockMovementFilters) ([]models.StockMovement, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT sm.id, sm.product_id, sm.user_id, sm.movement_type, sm.quantity_change,
		       sm.reason, sm.movement_date, sm.created_at,
		       p.name, p.barcode,
		       COUNT(*) OVER() AS total_count
		FROM stock_movements sm
		JOIN products p ON p.id = sm.product_id`)

	args := []interface{}{}
	conditions := []string{}
	argID := 1

	if filters.ProductID != nil {
		conditions = append(conditions, fmt.Sprintf("sm.product_id = $%d", argID))
		args = append(args, *filters.ProductID)
		argID++
	}
	if filters.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("sm.user_id = $%d", argID))
		args = append(args, *filters.UserID)
		argID++
	}
	if filters.MovementType != nil && *filters.MovementType != "" {
		conditions = append(conditions, fmt.Sprintf("sm.movement_type = $%d", argID))
		args = append(args, *filters.MovementType)
		argID++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY sm.movement_date DESC, sm.id DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argID))
		args = append(args, filters.PageSize)
		argID++
		if filters.Page > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argID))
			args = append(args, (filters.Page-1)*filters.PageSize)
			argID++
		}
	}

	rows, err := exec.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying stock movements: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	movements := []models.StockMovement{}
	totalCount := 0
	for rows.Next() {
		var m models.StockMovement
		var productName, productBarcode string
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.UserID, &m.MovementType, &m.QuantityChange,
			&m.Reason, &m.MovementDate, &m.CreatedAt,
			&productName, &productBarcode, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning stock movement row: %v", ErrDatabaseError, err)
		}
		m.Product = &models.Product{ID: m.ProductID, Name: productName, Barcode: productBarcode}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating stock movement rows: %v", ErrDatabaseError, err)
	}
	return movements, totalCount, nil
}

// SumQuantityByProduct returns the ledger total for one product. Used by the
// consistency check endpoint and by tests; equals products.stock_quantity
// when the ledger is intact.
func (r *stockMovementRepository) SumQuantityByProduct(exec SQLExecutor, productID int64) (int, error) {
	query := `SELECT COALESCE(SUM(quantity_change), 0) FROM stock_movements WHERE product_id = $1`
	var total int
	if err := exec.QueryRow(query, productID).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: summing stock movements for product %d: %v", ErrDatabaseError, productID, err)
	}
	return total, nil
}
