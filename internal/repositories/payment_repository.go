package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"pos_backend/internal/models"
)

// PaymentRepository defines methods for interacting with payment data.
type PaymentRepository interface {
	UpsertPayment(exec SQLExecutor, payment *models.Payment) (int64, error)
	GetPaymentByOrderID(exec SQLExecutor, orderID int64) (*models.Payment, error)
}

type paymentRepository struct{}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository() PaymentRepository {
	return &paymentRepository{}
}

// UpsertPayment inserts the payment row for an order or overwrites the
// existing one. The unique constraint on order_id makes repeated
// confirmations converge on a single row instead of stacking duplicates.
func (r *paymentRepository) UpsertPayment(exec SQLExecutor, payment *models.Payment) (int64, error) {
	query := `
		INSERT INTO payments (order_id, amount, method, transaction_ref, status, payer_name, payer_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_id) DO UPDATE
		SET amount = EXCLUDED.amount,
		    method = EXCLUDED.method,
		    transaction_ref = EXCLUDED.transaction_ref,
		    status = EXCLUDED.status,
		    payer_name = EXCLUDED.payer_name,
		    payer_phone = EXCLUDED.payer_phone,
		    updated_at = NOW()
		RETURNING id`
	err := exec.QueryRow(query,
		payment.OrderID, payment.Amount, payment.Method, payment.TransactionRef,
		payment.Status, payment.PayerName, payment.PayerPhone,
	).Scan(&payment.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: upserting payment for order %d: %v", ErrDatabaseError, payment.OrderID, err)
	}
	return payment.ID, nil
}

func (r *paymentRepository) GetPaymentByOrderID(exec SQLExecutor, orderID int64) (*models.Payment, error) {
	query := `
		SELECT id, order_id, amount, method, transaction_ref, status, payer_name, payer_phone, created_at, updated_at
		FROM payments WHERE order_id = $1`
	payment := &models.Payment{}
	err := exec.QueryRow(query, orderID).Scan(
		&payment.ID, &payment.OrderID, &payment.Amount, &payment.Method,
		&payment.TransactionRef, &payment.Status, &payment.PayerName,
		&payment.PayerPhone, &payment.CreatedAt, &payment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment for order %d", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("%w: getting payment for order %d: %v", ErrDatabaseError, orderID, err)
	}
	return payment, nil
}
