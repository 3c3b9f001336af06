package services

import "errors"

// Service level errors. Handlers map these onto HTTP status codes.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("invalid credentials")
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicate          = errors.New("record already exists")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidOrderStatus = errors.New("order is not in a state that allows this operation")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrPaymentNotVerified = errors.New("payment could not be verified")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrInternal           = errors.New("internal service error")
)
