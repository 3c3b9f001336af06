package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pos_backend/internal/gateway"
	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
)

// PaymentService defines business logic for settling non-cash orders.
type PaymentService interface {
	VerifyGatewayPayment(ctx context.Context, orderID int64) (*models.Order, error)
	RecordTransferPayment(req TransferPaymentRequest) (*models.Order, error)
	GetPaymentByOrderID(orderID int64) (*models.Payment, error)
}

type paymentService struct {
	orderRepo   repositories.OrderRepository
	paymentRepo repositories.PaymentRepository
	verifier    gateway.Verifier
	db          *sql.DB
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	orderRepo repositories.OrderRepository,
	paymentRepo repositories.PaymentRepository,
	verifier gateway.Verifier,
	db *sql.DB,
) PaymentService {
	return &paymentService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		verifier:    verifier,
		db:          db,
	}
}

// TransferPaymentRequest defines the payload for recording a bank transfer.
type TransferPaymentRequest struct {
	OrderID        int64   `json:"-"`
	PayerName      string  `json:"payer_name" binding:"required"`
	PayerPhone     *string `json:"payer_phone,omitempty"`
	TransactionRef *string `json:"transaction_ref,omitempty"`
}

// VerifyGatewayPayment asks the payment provider whether the order's
// transaction went through and completes the order on a positive answer.
// The provider call happens strictly outside any database transaction, so
// a slow gateway never holds locks.
func (s *paymentService) VerifyGatewayPayment(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(s.db, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: getting order: %v", ErrInternal, err)
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order %d is already %s", ErrInvalidOrderStatus, orderID, order.Status)
	}
	if order.PaymentMethod == models.PaymentMethodCash {
		return nil, fmt.Errorf("%w: order %d is a cash order", ErrInvalidOrderStatus, orderID)
	}
	if order.TransactionRef == nil || *order.TransactionRef == "" {
		return nil, fmt.Errorf("%w: order %d has no transaction reference", ErrInvalidOrderStatus, orderID)
	}

	result, err := s.verifier.VerifyTransaction(ctx, *order.TransactionRef)
	if err != nil {
		// Indeterminate: nothing is written, the order stays pending and
		// the operator can retry.
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if !result.Verified {
		if err := s.recordFailedPayment(order, result.GatewayStatus); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: gateway reported status '%s'", ErrPaymentNotVerified, result.GatewayStatus)
	}

	return s.completeVerifiedOrder(orderID)
}

func (s *paymentService) recordFailedPayment(order *models.Order, gatewayStatus string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: starting transaction: %v", ErrInternal, err)
	}
	defer tx.Rollback()

	payment := &models.Payment{
		OrderID:        order.ID,
		Amount:         order.TotalAmount,
		Method:         order.PaymentMethod,
		TransactionRef: order.TransactionRef,
		Status:         models.PaymentStatusFailed,
	}
	if _, err := s.paymentRepo.UpsertPayment(tx, payment); err != nil {
		return fmt.Errorf("%w: recording failed payment: %v", ErrInternal, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %v", ErrInternal, err)
	}
	return nil
}

func (s *paymentService) completeVerifiedOrder(orderID int64) (*models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: starting transaction: %v", ErrInternal, err)
	}
	defer tx.Rollback()

	// Re-check under the lock: another request may have completed the
	// order while we were talking to the provider.
	order, err := s.orderRepo.GetOrderForUpdate(tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: locking order: %v", ErrInternal, err)
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order %d is already %s", ErrInvalidOrderStatus, orderID, order.Status)
	}

	if err := s.orderRepo.UpdateOrderStatus(tx, orderID, models.OrderStatusCompleted); err != nil {
		return nil, fmt.Errorf("%w: completing order: %v", ErrInternal, err)
	}
	payment := &models.Payment{
		OrderID:        orderID,
		Amount:         order.TotalAmount,
		Method:         order.PaymentMethod,
		TransactionRef: order.TransactionRef,
		Status:         models.PaymentStatusSuccessful,
	}
	if _, err := s.paymentRepo.UpsertPayment(tx, payment); err != nil {
		return nil, fmt.Errorf("%w: recording payment: %v", ErrInternal, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing transaction: %v", ErrInternal, err)
	}

	completed, err := s.orderRepo.GetOrderByID(s.db, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: reloading order: %v", ErrInternal, err)
	}
	return completed, nil
}

// RecordTransferPayment completes a pending order paid by bank transfer,
// storing who paid so the transfer can be matched against the statement.
func (s *paymentService) RecordTransferPayment(req TransferPaymentRequest) (*models.Order, error) {
	if strings.TrimSpace(req.PayerName) == "" {
		return nil, fmt.Errorf("%w: payer name is required", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: starting transaction: %v", ErrInternal, err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetOrderForUpdate(tx, req.OrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: locking order: %v", ErrInternal, err)
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order %d is already %s", ErrInvalidOrderStatus, req.OrderID, order.Status)
	}

	if err := s.orderRepo.UpdateOrderStatus(tx, req.OrderID, models.OrderStatusCompleted); err != nil {
		return nil, fmt.Errorf("%w: completing order: %v", ErrInternal, err)
	}

	payerName := strings.TrimSpace(req.PayerName)
	transactionRef := req.TransactionRef
	if transactionRef == nil {
		transactionRef = order.TransactionRef
	}
	payment := &models.Payment{
		OrderID:        req.OrderID,
		Amount:         order.TotalAmount,
		Method:         models.PaymentMethodTransfer,
		TransactionRef: transactionRef,
		Status:         models.PaymentStatusSuccessful,
		PayerName:      &payerName,
		PayerPhone:     req.PayerPhone,
	}
	if _, err := s.paymentRepo.UpsertPayment(tx, payment); err != nil {
		return nil, fmt.Errorf("%w: recording payment: %v", ErrInternal, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing transaction: %v", ErrInternal, err)
	}

	completed, err := s.orderRepo.GetOrderByID(s.db, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("%w: reloading order: %v", ErrInternal, err)
	}
	return completed, nil
}

func (s *paymentService) GetPaymentByOrderID(orderID int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetPaymentByOrderID(s.db, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: getting payment: %v", ErrInternal, err)
	}
	return payment, nil
}
