package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"pos_backend/internal/models"
)

// ProductRepository defines methods for interacting with product data.
type ProductRepository interface {
	CreateProduct(exec SQLExecutor, product *models.Product) (int64, error)
	GetProductByID(exec SQLExecutor, id int64) (*models.Product, error)
	GetProducts(exec SQLExecutor, filters models.ProductFilters) ([]models.Product, int, error)
	UpdateProduct(exec SQLExecutor, product *models.Product) error
	DeactivateProduct(exec SQLExecutor, id int64) error
	GetProductByBarcode(exec SQLExecutor, barcode string) (*models.Product, error)
	FindByBarcode(exec SQLExecutor, code string) ([]models.Product, error)
	GetProductForUpdate(exec SQLExecutor, id int64) (*models.Product, error)
	UpdateStock(exec SQLExecutor, productID int64, quantityChange int) (int, error)
}

type productRepository struct{}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository() ProductRepository {
	return &productRepository{}
}

const productColumns = `id, name, barcode, description, price, stock_quantity, low_stock_threshold, is_active, created_at, updated_at`

func scanProduct(scanner interface{ Scan(...interface{}) error }, p *models.Product) error {
	return scanner.Scan(
		&p.ID, &p.Name, &p.Barcode, &p.Description, &p.Price,
		&p.StockQuantity, &p.LowStockThreshold, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *productRepository) CreateProduct(exec SQLExecutor, product *models.Product) (int64, error) {
	query := `
		INSERT INTO products (name, barcode, description, price, stock_quantity, low_stock_threshold, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id`
	err := exec.QueryRow(query,
		product.Name, product.Barcode, product.Description,
		product.Price, product.StockQuantity, product.LowStockThreshold,
	).Scan(&product.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: product with barcode '%s' already exists", ErrDuplicateKey, product.Barcode)
		}
		return 0, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return product.ID, nil
}

func (r *productRepository) GetProductByID(exec SQLExecutor, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product := &models.Product{}
	err := scanProduct(exec.QueryRow(query, id), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product with ID %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: getting product by ID %d: %v", ErrDatabaseError, id, err)
	}
	return product, nil
}

func (r *productRepository) GetProducts(exec SQLExecutor, filters models.ProductFilters) ([]models.Product, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + productColumns + `, COUNT(*) OVER() AS total_count FROM products`)

	args := []interface{}{}
	conditions := []string{}
	argID := 1

	if filters.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filters.Search != nil && *filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR barcode ILIKE $%d)", argID, argID))
		args = append(args, "%"+*filters.Search+"%")
		argID++
	}
	if filters.LowStock {
		conditions = append(conditions, "low_stock_threshold IS NOT NULL AND stock_quantity <= low_stock_threshold")
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY name ASC")

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
		return nil, 0, fmt.Errorf("%w: querying products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	products := []models.Product{}
	totalCount := 0
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Barcode, &p.Description, &p.Price,
			&p.StockQuantity, &p.LowStockThreshold, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning product row: %v", ErrDatabaseError, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}
	return products, totalCount, nil
}

func (r *productRepository) UpdateProduct(exec SQLExecutor, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, barcode = $2, description = $3, price = $4, low_stock_threshold = $5, updated_at = NOW()
		WHERE id = $6 AND is_active = TRUE`
	result, err := exec.Exec(query,
		product.Name, product.Barcode, product.Description,
		product.Price, product.LowStockThreshold, product.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: product with barcode '%s' already exists", ErrDuplicateKey, product.Barcode)
		}
		return fmt.Errorf("%w: updating product %d: %v", ErrDatabaseError, product.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking rows affected for product %d: %v", ErrDatabaseError, product.ID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: product with ID %d", ErrNotFound, product.ID)
	}
	return nil
}

func (r *productRepository) DeactivateProduct(exec SQLExecutor, id int64) error {
	query := `UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active = TRUE`
	result, err := exec.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deactivating product %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking rows affected for product %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: product with ID %d", ErrNotFound, id)
	}
	return nil
}

func (r *productRepository) GetProductByBarcode(exec SQLExecutor, barcode string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE barcode = $1 AND is_active = TRUE`
	product := &models.Product{}
	err := scanProduct(exec.QueryRow(query, barcode), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product with barcode '%s'", ErrNotFound, barcode)
		}
		return nil, fmt.Errorf("%w: getting product by barcode '%s': %v", ErrDatabaseError, barcode, err)
	}
	return product, nil
}

// FindByBarcode looks for an exact active barcode match first; when there is
// none it falls back to a substring search over barcode and name so partial
// scanner input still finds candidates.
func (r *productRepository) FindByBarcode(exec SQLExecutor, code string) ([]models.Product, error) {
	exact, err := r.GetProductByBarcode(exec, code)
	if err == nil {
		return []models.Product{*exact}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE (barcode ILIKE $1 OR name ILIKE $1) AND is_active = TRUE ORDER BY barcode ASC LIMIT 20`
	rows, err := exec.Query(query, "%"+code+"%")
	if err != nil {
		return nil, fmt.Errorf("%w: searching products by barcode '%s': %v", ErrDatabaseError, code, err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("%w: scanning product row: %v", ErrDatabaseError, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}
	return products, nil
}

// GetProductForUpdate locks the product row until the surrounding
// transaction ends. Must be called with a *sql.Tx executor.
func (r *productRepository) GetProductForUpdate(exec SQLExecutor, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	product := &models.Product{}
	err := scanProduct(exec.QueryRow(query, id), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product with ID %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: locking product %d: %v", ErrDatabaseError, id, err)
	}
	return product, nil
}

// UpdateStock applies a signed change to the cached quantity and returns the
// new value. Callers are responsible for appending the matching ledger entry
// in the same transaction.
func (r *productRepository) UpdateStock(exec SQLExecutor, productID int64, quantityChange int) (int, error) {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING stock_quantity`
	var newQuantity int
	err := exec.QueryRow(query, quantityChange, productID).Scan(&newQuantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: product with ID %d", ErrNotFound, productID)
		}
		return 0, fmt.Errorf("%w: updating stock for product %d: %v", ErrDatabaseError, productID, err)
	}
	return newQuantity, nil
}
