package services

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos_backend/internal/models"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func activeProduct(id int64, name string, price float64, stock int) *models.Product {
	return &models.Product{ID: id, Name: name, Barcode: "B" + name, Price: price, StockQuantity: stock, IsActive: true}
}

func newOrderServiceForTest(db *sql.DB, productRepo *fakeProductRepo) (OrderService, *fakeOrderRepo, *fakeMovementRepo, *fakePaymentRepo) {
	orderRepo := newFakeOrderRepo()
	movementRepo := &fakeMovementRepo{}
	paymentRepo := newFakePaymentRepo()
	svc := NewOrderService(orderRepo, productRepo, movementRepo, paymentRepo, db)
	return svc, orderRepo, movementRepo, paymentRepo
}

func TestCreateOrder_Success(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	productRepo := newFakeProductRepo(
		activeProduct(1, "cola", 2.50, 10),
		activeProduct(2, "chips", 4.00, 3),
	)
	svc, _, movementRepo, _ := newOrderServiceForTest(db, productRepo)

	order, err := svc.CreateOrder(CreateOrderRequest{
		PaymentMethod: models.PaymentMethodCash,
		Items: []CreateOrderItemRequest{
			{ProductID: 1, Quantity: 4, UnitPrice: 2.50},
			{ProductID: 2, Quantity: 1, UnitPrice: 4.00},
		},
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.InDelta(t, 14.00, order.TotalAmount, 0.001)
	assert.Len(t, order.OrderItems, 2)
	assert.Nil(t, order.TransactionRef)

	// Stock came down and the ledger recorded each decrement.
	assert.Equal(t, 6, productRepo.products[1].StockQuantity)
	assert.Equal(t, 2, productRepo.products[2].StockQuantity)
	require.Len(t, movementRepo.movements, 2)
	assert.Equal(t, models.MovementTypeOut, movementRepo.movements[0].MovementType)
	assert.Equal(t, -4, movementRepo.movements[0].QuantityChange)
	assert.Equal(t, -1, movementRepo.movements[1].QuantityChange)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_GatewayMethodGetsTransactionRef(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	productRepo := newFakeProductRepo(activeProduct(1, "cola", 2.50, 10))
	svc, _, _, _ := newOrderServiceForTest(db, productRepo)

	order, err := svc.CreateOrder(CreateOrderRequest{
		PaymentMethod: models.PaymentMethodGateway,
		Items:         []CreateOrderItemRequest{{ProductID: 1, Quantity: 1, UnitPrice: 2.50}},
	}, 7)
	require.NoError(t, err)
	require.NotNil(t, order.TransactionRef)
	assert.NotEmpty(t, *order.TransactionRef)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_InsufficientStockRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	productRepo := newFakeProductRepo(
		activeProduct(1, "cola", 2.50, 10),
		activeProduct(2, "chips", 4.00, 1),
	)
	svc, orderRepo, movementRepo, _ := newOrderServiceForTest(db, productRepo)

	_, err := svc.CreateOrder(CreateOrderRequest{
		PaymentMethod: models.PaymentMethodCash,
		Items: []CreateOrderItemRequest{
			{ProductID: 1, Quantity: 2, UnitPrice: 2.50},
			{ProductID: 2, Quantity: 5, UnitPrice: 4.00},
		},
	}, 7)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing was written: stock, orders and ledger are untouched.
	assert.Equal(t, 10, productRepo.products[1].StockQuantity)
	assert.Equal(t, 1, productRepo.products[2].StockQuantity)
	assert.Empty(t, orderRepo.orders)
	assert.Empty(t, movementRepo.movements)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_SecondOrderCannotSellExhaustedStock(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	productRepo := newFakeProductRepo(activeProduct(1, "cola", 2.50, 3))
	svc, _, movementRepo, _ := newOrderServiceForTest(db, productRepo)

	req := CreateOrderRequest{
		PaymentMethod: models.PaymentMethodCash,
		Items:         []CreateOrderItemRequest{{ProductID: 1, Quantity: 3, UnitPrice: 2.50}},
	}
	_, err := svc.CreateOrder(req, 7)
	require.NoError(t, err)

	_, err = svc.CreateOrder(req, 8)
	require.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 0, productRepo.products[1].StockQuantity)
	assert.Equal(t, -3, movementRepo.sumFor(1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_RejectsUnknownPaymentMethod(t *testing.T) {
	db, _ := newMockDB(t)
	svc, _, _, _ := newOrderServiceForTest(db, newFakeProductRepo())

	_, err := svc.CreateOrder(CreateOrderRequest{
		PaymentMethod: "iou",
		Items:         []CreateOrderItemRequest{{ProductID: 1, Quantity: 1, UnitPrice: 1}},
	}, 7)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrder_RejectsTotalMismatch(t *testing.T) {
	db, _ := newMockDB(t)
	svc, _, _, _ := newOrderServiceForTest(db, newFakeProductRepo(activeProduct(1, "cola", 2.50, 10)))

	wrongTotal := 99.99
	_, err := svc.CreateOrder(CreateOrderRequest{
		PaymentMethod: models.PaymentMethodCash,
		TotalAmount:   &wrongTotal,
		Items:         []CreateOrderItemRequest{{ProductID: 1, Quantity: 2, UnitPrice: 2.50}},
	}, 7)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrder_AcceptsTotalWithinTolerance(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	svc, _, _, _ := newOrderServiceForTest(db, newFakeProductRepo(activeProduct(1, "cola", 2.50, 10)))

	almostExact := 5.001
	_, err := svc.CreateOrder(CreateOrderRequest{
		PaymentMethod: models.PaymentMethodCash,
		TotalAmount:   &almostExact,
		Items:         []CreateOrderItemRequest{{ProductID: 1, Quantity: 2, UnitPrice: 2.50}},
	}, 7)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_InactiveProductRejected(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	inactive := activeProduct(1, "cola", 2.50, 10)
	inactive.IsActive = false
	svc, _, _, _ := newOrderServiceForTest(db, newFakeProductRepo(inactive))

	_, err := svc.CreateOrder(CreateOrderRequest{
		PaymentMethod: models.PaymentMethodCash,
		Items:         []CreateOrderItemRequest{{ProductID: 1, Quantity: 1, UnitPrice: 2.50}},
	}, 7)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_FailedMovementRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	productRepo := newFakeProductRepo(activeProduct(1, "cola", 2.50, 10))
	orderRepo := newFakeOrderRepo()
	movementRepo := &fakeMovementRepo{failCreate: true}
	svc := NewOrderService(orderRepo, productRepo, movementRepo, newFakePaymentRepo(), db)

	_, err := svc.CreateOrder(CreateOrderRequest{
		PaymentMethod: models.PaymentMethodCash,
		Items:         []CreateOrderItemRequest{{ProductID: 1, Quantity: 1, UnitPrice: 2.50}},
	}, 7)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_CompletesCashOrder(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	order := &models.Order{
		ID:            1,
		UserID:        7,
		Status:        models.OrderStatusPending,
		TotalAmount:   14.00,
		PaymentMethod: models.PaymentMethodCash,
	}
	orderRepo := newFakeOrderRepo(order)
	paymentRepo := newFakePaymentRepo()
	svc := NewOrderService(orderRepo, newFakeProductRepo(), &fakeMovementRepo{}, paymentRepo, db)

	confirmed, err := svc.ConfirmPayment(1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, confirmed.Status)

	payment := paymentRepo.payments[1]
	require.NotNil(t, payment)
	assert.Equal(t, models.PaymentStatusSuccessful, payment.Status)
	assert.Equal(t, models.PaymentMethodCash, payment.Method)
	assert.InDelta(t, 14.00, payment.Amount, 0.001)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_NonCashOrderOnlyFlipsStatus(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	ref := "POS-abc123"
	order := &models.Order{
		ID:             1,
		UserID:         7,
		Status:         models.OrderStatusPending,
		TotalAmount:    20.00,
		PaymentMethod:  models.PaymentMethodGateway,
		TransactionRef: &ref,
	}
	orderRepo := newFakeOrderRepo(order)
	paymentRepo := newFakePaymentRepo()
	svc := NewOrderService(orderRepo, newFakeProductRepo(), &fakeMovementRepo{}, paymentRepo, db)

	confirmed, err := svc.ConfirmPayment(1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, confirmed.Status)

	// Payment rows for non-cash orders come from the payment flow, never
	// from lifecycle confirmation.
	assert.Zero(t, paymentRepo.upsertCalls)
	assert.Nil(t, paymentRepo.payments[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmCorrection_TransferOrderWritesNoPayment(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	order := &models.Order{
		ID:            1,
		UserID:        7,
		Status:        models.OrderStatusPending,
		TotalAmount:   15.00,
		PaymentMethod: models.PaymentMethodTransfer,
	}
	paymentRepo := newFakePaymentRepo()
	svc := NewOrderService(newFakeOrderRepo(order), newFakeProductRepo(), &fakeMovementRepo{}, paymentRepo, db)

	confirmed, err := svc.ConfirmCorrection(1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, confirmed.Status)
	assert.Zero(t, paymentRepo.upsertCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_RepeatedConfirmIsRejectedWithoutWrites(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	order := &models.Order{
		ID:            1,
		UserID:        7,
		Status:        models.OrderStatusPending,
		TotalAmount:   14.00,
		PaymentMethod: models.PaymentMethodCash,
	}
	orderRepo := newFakeOrderRepo(order)
	paymentRepo := newFakePaymentRepo()
	svc := NewOrderService(orderRepo, newFakeProductRepo(), &fakeMovementRepo{}, paymentRepo, db)

	_, err := svc.ConfirmPayment(1)
	require.NoError(t, err)
	upsertsAfterFirst := paymentRepo.upsertCalls
	statusUpdatesAfterFirst := orderRepo.statusUpdateCalls

	_, err = svc.ConfirmPayment(1)
	require.ErrorIs(t, err, ErrInvalidOrderStatus)

	assert.Equal(t, upsertsAfterFirst, paymentRepo.upsertCalls)
	assert.Equal(t, statusUpdatesAfterFirst, orderRepo.statusUpdateCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_UnknownOrder(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	svc := NewOrderService(newFakeOrderRepo(), newFakeProductRepo(), &fakeMovementRepo{}, newFakePaymentRepo(), db)

	_, err := svc.ConfirmPayment(42)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
