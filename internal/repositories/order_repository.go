package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pos_backend/internal/models"
)

// OrderRepository defines methods for interacting with order data.
type OrderRepository interface {
	CreateOrder(exec SQLExecutor, order *models.Order) (int64, error)
	CreateOrderItem(exec SQLExecutor, item *models.OrderItem) (int64, error)
	GetOrderByID(exec SQLExecutor, id int64) (*models.Order, error)
	GetOrderForUpdate(exec SQLExecutor, id int64) (*models.Order, error)
	GetOrders(exec SQLExecutor, filters models.OrderFilters) ([]models.Order, int, error)
	GetOrderItemsByOrderID(exec SQLExecutor, orderID int64) ([]models.OrderItem, error)
	UpdateOrderStatus(exec SQLExecutor, id int64, status string) error
}

type orderRepository struct{}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository() OrderRepository {
	return &orderRepository{}
}

func (r *orderRepository) CreateOrder(exec SQLExecutor, order *models.Order) (int64, error) {
	query := `
		INSERT INTO orders (user_id, customer_id, status, total_amount, payment_method, transaction_ref)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err := exec.QueryRow(query,
		order.UserID, order.CustomerID, order.Status,
		order.TotalAmount, order.PaymentMethod, order.TransactionRef,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

func (r *orderRepository) CreateOrderItem(exec SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := exec.QueryRow(query,
		item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice,
	).Scan(&item.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating order item for order %d: %v", ErrDatabaseError, item.OrderID, err)
	}
	return item.ID, nil
}

const orderSelect = `
	SELECT o.id, o.user_id, o.customer_id, o.status, o.total_amount, o.payment_method,
	       o.transaction_ref, o.created_at, o.updated_at, u.username
	FROM orders o
	JOIN users u ON u.id = o.user_id`

func scanOrder(scanner interface{ Scan(...interface{}) error }, o *models.Order) error {
	var cashierName sql.NullString
	err := scanner.Scan(
		&o.ID, &o.UserID, &o.CustomerID, &o.Status, &o.TotalAmount,
		&o.PaymentMethod, &o.TransactionRef, &o.CreatedAt, &o.UpdatedAt,
		&cashierName,
	)
	if err != nil {
		return err
	}
	if cashierName.Valid {
		o.CashierName = &cashierName.String
	}
	return nil
}

func (r *orderRepository) GetOrderByID(exec SQLExecutor, id int64) (*models.Order, error) {
	order := &models.Order{}
	err := scanOrder(exec.QueryRow(orderSelect+` WHERE o.id = $1`, id), order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: order with ID %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, id, err)
	}

	items, err := r.GetOrderItemsByOrderID(exec, id)
	if err != nil {
		return nil, err
	}
	order.OrderItems = items
	return order, nil
}

// GetOrderForUpdate locks the order row until the surrounding transaction
// ends. Must be called with a *sql.Tx executor. Items are not loaded.
func (r *orderRepository) GetOrderForUpdate(exec SQLExecutor, id int64) (*models.Order, error) {
	query := `
		SELECT id, user_id, customer_id, status, total_amount, payment_method,
		       transaction_ref, created_at, updated_at
		FROM orders WHERE id = $1 FOR UPDATE`
	order := &models.Order{}
	err := exec.QueryRow(query, id).Scan(
		&order.ID, &order.UserID, &order.CustomerID, &order.Status,
		&order.TotalAmount, &order.PaymentMethod, &order.TransactionRef,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: order with ID %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: locking order %d: %v", ErrDatabaseError, id, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrders(exec SQLExecutor, filters models.OrderFilters) ([]models.Order, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT o.id, o.user_id, o.customer_id, o.status, o.total_amount, o.payment_method,
		       o.transaction_ref, o.created_at, o.updated_at, u.username,
		       COUNT(*) OVER() AS total_count
		FROM orders o
		JOIN users u ON u.id = o.user_id`)

	args := []interface{}{}
	conditions := []string{}
	argID := 1

	if filters.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("o.user_id = $%d", argID))
		args = append(args, *filters.UserID)
		argID++
	}
	if filters.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("o.customer_id = $%d", argID))
		args = append(args, *filters.CustomerID)
		argID++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argID))
		args = append(args, *filters.Status)
		argID++
	}
	if filters.Date != nil && *filters.Date != "" {
		conditions = append(conditions, fmt.Sprintf("o.created_at::date = $%d", argID))
		args = append(args, *filters.Date)
		argID++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY o.created_at DESC, o.id DESC")

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
		return nil, 0, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	totalCount := 0
	for rows.Next() {
		var o models.Order
		var cashierName sql.NullString
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.CustomerID, &o.Status, &o.TotalAmount,
			&o.PaymentMethod, &o.TransactionRef, &o.CreatedAt, &o.UpdatedAt,
			&cashierName, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order row: %v", ErrDatabaseError, err)
		}
		if cashierName.Valid {
			o.CashierName = &cashierName.String
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

func (r *orderRepository) GetOrderItemsByOrderID(exec SQLExecutor, orderID int64) ([]models.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, oi.total_price, oi.created_at,
		       p.name, p.barcode
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id ASC`
	rows, err := exec.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying items for order %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		var productName, productBarcode string
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.TotalPrice, &item.CreatedAt,
			&productName, &productBarcode,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning order item row: %v", ErrDatabaseError, err)
		}
		item.Product = &models.Product{ID: item.ProductID, Name: productName, Barcode: productBarcode}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order item rows: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *orderRepository) UpdateOrderStatus(exec SQLExecutor, id int64, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := exec.Exec(query, status, id)
	if err != nil {
		return fmt.Errorf("%w: updating status for order %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking rows affected for order %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: order with ID %d", ErrNotFound, id)
	}
	return nil
}
