package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
)

// CustomerService defines business logic for the customer directory.
type CustomerService interface {
	CreateCustomer(req CustomerRequest) (*models.Customer, error)
	GetCustomerByID(id int64) (*models.Customer, error)
	GetCustomers(search *string, page, pageSize int) ([]models.Customer, int, error)
	UpdateCustomer(id int64, req CustomerRequest) (*models.Customer, error)
	DeleteCustomer(id int64) error
}

type customerService struct {
	customerRepo repositories.CustomerRepository
	db           *sql.DB
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customerRepo repositories.CustomerRepository, db *sql.DB) CustomerService {
	return &customerService{customerRepo: customerRepo, db: db}
}

// CustomerRequest defines the payload for creating or updating a customer.
type CustomerRequest struct {
	FullName    string  `json:"full_name" binding:"required"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
}

func (s *customerService) CreateCustomer(req CustomerRequest) (*models.Customer, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrValidation)
	}
	customer := &models.Customer{
		FullName:    strings.TrimSpace(req.FullName),
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	}
	if _, err := s.customerRepo.CreateCustomer(s.db, customer); err != nil {
		return nil, fmt.Errorf("%w: creating customer: %v", ErrInternal, err)
	}
	return customer, nil
}

func (s *customerService) GetCustomerByID(id int64) (*models.Customer, error) {
	customer, err := s.customerRepo.GetCustomerByID(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("%w: getting customer: %v", ErrInternal, err)
	}
	return customer, nil
}

func (s *customerService) GetCustomers(search *string, page, pageSize int) ([]models.Customer, int, error) {
	if pageSize <= 0 {
		pageSize = 50
	}
	if page <= 0 {
		page = 1
	}
	customers, total, err := s.customerRepo.GetCustomers(s.db, search, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: listing customers: %v", ErrInternal, err)
	}
	return customers, total, nil
}

func (s *customerService) UpdateCustomer(id int64, req CustomerRequest) (*models.Customer, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrValidation)
	}
	customer := &models.Customer{
		ID:          id,
		FullName:    strings.TrimSpace(req.FullName),
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	}
	if err := s.customerRepo.UpdateCustomer(s.db, customer); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("%w: updating customer: %v", ErrInternal, err)
	}
	return s.GetCustomerByID(id)
}

func (s *customerService) DeleteCustomer(id int64) error {
	if err := s.customerRepo.DeleteCustomer(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("%w: deleting customer: %v", ErrInternal, err)
	}
	return nil
}
