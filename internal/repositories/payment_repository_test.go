package repositories

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos_backend/internal/models"
)

func TestUpsertPayment_UsesOrderIDConflictTarget(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository()

	mock.ExpectQuery(`INSERT INTO payments .+ ON CONFLICT \(order_id\) DO UPDATE`).
		WithArgs(int64(1), 20.0, models.PaymentMethodCash, nil, models.PaymentStatusSuccessful, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	payment := &models.Payment{
		OrderID: 1,
		Amount:  20.0,
		Method:  models.PaymentMethodCash,
		Status:  models.PaymentStatusSuccessful,
	}
	id, err := repo.UpsertPayment(db, payment)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.Equal(t, int64(5), payment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPayment_SecondUpsertReturnsSameRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository()

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`ON CONFLICT \(order_id\) DO UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	}

	first := &models.Payment{OrderID: 1, Amount: 20.0, Method: models.PaymentMethodGateway, Status: models.PaymentStatusFailed}
	second := &models.Payment{OrderID: 1, Amount: 20.0, Method: models.PaymentMethodGateway, Status: models.PaymentStatusSuccessful}

	firstID, err := repo.UpsertPayment(db, first)
	require.NoError(t, err)
	secondID, err := repo.UpsertPayment(db, second)
	require.NoError(t, err)

	assert.Equal(t, firstID, secondID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPaymentByOrderID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository()

	mock.ExpectQuery(`FROM payments WHERE order_id = \$1`).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetPaymentByOrderID(db, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}
