package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos_backend/internal/gateway"
	"pos_backend/internal/models"
)

type stubVerifier struct {
	result *gateway.VerificationResult
	err    error
	calls  int
}

func (v *stubVerifier) VerifyTransaction(_ context.Context, reference string) (*gateway.VerificationResult, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	result := *v.result
	if result.Reference == "" {
		result.Reference = reference
	}
	return &result, nil
}

func pendingGatewayOrder() *models.Order {
	ref := "POS-abc123"
	return &models.Order{
		ID:             1,
		UserID:         7,
		Status:         models.OrderStatusPending,
		TotalAmount:    20.00,
		PaymentMethod:  models.PaymentMethodGateway,
		TransactionRef: &ref,
	}
}

func TestVerifyGatewayPayment_Success(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	orderRepo := newFakeOrderRepo(pendingGatewayOrder())
	paymentRepo := newFakePaymentRepo()
	verifier := &stubVerifier{result: &gateway.VerificationResult{Verified: true, GatewayStatus: "success"}}
	svc := NewPaymentService(orderRepo, paymentRepo, verifier, db)

	order, err := svc.VerifyGatewayPayment(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.Equal(t, 1, verifier.calls)

	payment := paymentRepo.payments[1]
	require.NotNil(t, payment)
	assert.Equal(t, models.PaymentStatusSuccessful, payment.Status)
	assert.Equal(t, models.PaymentMethodGateway, payment.Method)
	assert.InDelta(t, 20.00, payment.Amount, 0.001)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyGatewayPayment_GatewayDownLeavesOrderUntouched(t *testing.T) {
	db, mock := newMockDB(t)

	orderRepo := newFakeOrderRepo(pendingGatewayOrder())
	paymentRepo := newFakePaymentRepo()
	verifier := &stubVerifier{err: gateway.ErrUnavailable}
	svc := NewPaymentService(orderRepo, paymentRepo, verifier, db)

	_, err := svc.VerifyGatewayPayment(context.Background(), 1)
	require.ErrorIs(t, err, ErrGatewayUnavailable)

	// Indeterminate outcome: nothing written, the order can be retried.
	assert.Equal(t, models.OrderStatusPending, orderRepo.orders[1].Status)
	assert.Zero(t, paymentRepo.upsertCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyGatewayPayment_NotVerifiedRecordsFailedPayment(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	orderRepo := newFakeOrderRepo(pendingGatewayOrder())
	paymentRepo := newFakePaymentRepo()
	verifier := &stubVerifier{result: &gateway.VerificationResult{Verified: false, GatewayStatus: "abandoned"}}
	svc := NewPaymentService(orderRepo, paymentRepo, verifier, db)

	_, err := svc.VerifyGatewayPayment(context.Background(), 1)
	require.ErrorIs(t, err, ErrPaymentNotVerified)

	// The order stays pending but the failed attempt is on record.
	assert.Equal(t, models.OrderStatusPending, orderRepo.orders[1].Status)
	payment := paymentRepo.payments[1]
	require.NotNil(t, payment)
	assert.Equal(t, models.PaymentStatusFailed, payment.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyGatewayPayment_RejectsCashOrders(t *testing.T) {
	db, _ := newMockDB(t)

	order := pendingGatewayOrder()
	order.PaymentMethod = models.PaymentMethodCash
	svc := NewPaymentService(newFakeOrderRepo(order), newFakePaymentRepo(), &stubVerifier{}, db)

	_, err := svc.VerifyGatewayPayment(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}

func TestVerifyGatewayPayment_RejectsCompletedOrders(t *testing.T) {
	db, _ := newMockDB(t)

	order := pendingGatewayOrder()
	order.Status = models.OrderStatusCompleted
	verifier := &stubVerifier{}
	svc := NewPaymentService(newFakeOrderRepo(order), newFakePaymentRepo(), verifier, db)

	_, err := svc.VerifyGatewayPayment(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
	assert.Zero(t, verifier.calls)
}

func TestVerifyGatewayPayment_RejectsMissingReference(t *testing.T) {
	db, _ := newMockDB(t)

	order := pendingGatewayOrder()
	order.TransactionRef = nil
	svc := NewPaymentService(newFakeOrderRepo(order), newFakePaymentRepo(), &stubVerifier{}, db)

	_, err := svc.VerifyGatewayPayment(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}

func TestRecordTransferPayment_CompletesOrder(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	order := pendingGatewayOrder()
	order.PaymentMethod = models.PaymentMethodTransfer
	orderRepo := newFakeOrderRepo(order)
	paymentRepo := newFakePaymentRepo()
	svc := NewPaymentService(orderRepo, paymentRepo, &stubVerifier{}, db)

	phone := "+77001234567"
	completed, err := svc.RecordTransferPayment(TransferPaymentRequest{
		OrderID:    1,
		PayerName:  "Aset K.",
		PayerPhone: &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, completed.Status)

	payment := paymentRepo.payments[1]
	require.NotNil(t, payment)
	assert.Equal(t, models.PaymentMethodTransfer, payment.Method)
	assert.Equal(t, models.PaymentStatusSuccessful, payment.Status)
	require.NotNil(t, payment.PayerName)
	assert.Equal(t, "Aset K.", *payment.PayerName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordTransferPayment_RequiresPayerName(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewPaymentService(newFakeOrderRepo(), newFakePaymentRepo(), &stubVerifier{}, db)

	_, err := svc.RecordTransferPayment(TransferPaymentRequest{OrderID: 1, PayerName: "  "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecordTransferPayment_RejectsCompletedOrder(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	order := pendingGatewayOrder()
	order.Status = models.OrderStatusCompleted
	paymentRepo := newFakePaymentRepo()
	svc := NewPaymentService(newFakeOrderRepo(order), paymentRepo, &stubVerifier{}, db)

	_, err := svc.RecordTransferPayment(TransferPaymentRequest{OrderID: 1, PayerName: "Aset K."})
	require.ErrorIs(t, err, ErrInvalidOrderStatus)
	assert.Zero(t, paymentRepo.upsertCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyGatewayPayment_WrapsVerifierError(t *testing.T) {
	db, _ := newMockDB(t)

	verifier := &stubVerifier{err: errors.New("connection reset")}
	svc := NewPaymentService(newFakeOrderRepo(pendingGatewayOrder()), newFakePaymentRepo(), verifier, db)

	_, err := svc.VerifyGatewayPayment(context.Background(), 1)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}
