package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func productRows(id int64, name string, stock int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "barcode", "description", "price",
		"stock_quantity", "low_stock_threshold", "is_active",
		"created_at", "updated_at",
	}).AddRow(id, name, "4870001", nil, 2.50, stock, nil, true, now, now)
}

func TestGetProductForUpdate_LocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository()

	mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(productRows(1, "cola", 10))

	product, err := repo.GetProductForUpdate(db, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), product.ID)
	assert.Equal(t, 10, product.StockQuantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductForUpdate_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository()

	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetProductForUpdate(db, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStock_ReturnsNewQuantity(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository()

	mock.ExpectQuery(`UPDATE products\s+SET stock_quantity = stock_quantity \+ \$1`).
		WithArgs(-3, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(7))

	newQty, err := repo.UpdateStock(db, 1, -3)
	require.NoError(t, err)
	assert.Equal(t, 7, newQty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStock_UnknownProduct(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository()

	mock.ExpectQuery(`UPDATE products`).
		WithArgs(5, int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateStock(db, 99, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProductByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository()

	mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetProductByID(db, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByBarcode_ExactMatchWins(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository()

	mock.ExpectQuery(`WHERE barcode = \$1 AND is_active = TRUE`).
		WithArgs("4870001").
		WillReturnRows(productRows(1, "cola", 10))

	products, err := repo.FindByBarcode(db, "4870001")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(1), products[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByBarcode_FallsBackToSubstringSearch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository()

	mock.ExpectQuery(`WHERE barcode = \$1 AND is_active = TRUE`).
		WithArgs("487").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`WHERE \(barcode ILIKE \$1 OR name ILIKE \$1\) AND is_active = TRUE`).
		WithArgs("%487%").
		WillReturnRows(productRows(1, "cola", 10))

	products, err := repo.FindByBarcode(db, "487")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
