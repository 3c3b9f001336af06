package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pos_backend/internal/models"
)

// CustomerRepository defines methods for interacting with customer data.
type CustomerRepository interface {
	CreateCustomer(exec SQLExecutor, customer *models.Customer) (int64, error)
	GetCustomerByID(exec SQLExecutor, id int64) (*models.Customer, error)
	GetCustomers(exec SQLExecutor, search *string, page, pageSize int) ([]models.Customer, int, error)
	UpdateCustomer(exec SQLExecutor, customer *models.Customer) error
	DeleteCustomer(exec SQLExecutor, id int64) error
}

type customerRepository struct{}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository() CustomerRepository {
	return &customerRepository{}
}

func (r *customerRepository) CreateCustomer(exec SQLExecutor, customer *models.Customer) (int64, error) {
	query := `
		INSERT INTO customers (full_name, phone_number, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	err := exec.QueryRow(query, customer.FullName, customer.PhoneNumber, customer.Email).
		Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("%w: creating customer: %v", ErrDatabaseError, err)
	}
	return customer.ID, nil
}

func (r *customerRepository) GetCustomerByID(exec SQLExecutor, id int64) (*models.Customer, error) {
	query := `SELECT id, full_name, phone_number, email, created_at, updated_at FROM customers WHERE id = $1`
	customer := &models.Customer{}
	err := exec.QueryRow(query, id).Scan(
		&customer.ID, &customer.FullName, &customer.PhoneNumber,
		&customer.Email, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer with ID %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: getting customer by ID %d: %v", ErrDatabaseError, id, err)
	}
	return customer, nil
}

func (r *customerRepository) GetCustomers(exec SQLExecutor, search *string, page, pageSize int) ([]models.Customer, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, full_name, phone_number, email, created_at, updated_at, COUNT(*) OVER() AS total_count FROM customers`)

	args := []interface{}{}
	argID := 1

	if search != nil && *search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE full_name ILIKE $%d OR phone_number ILIKE $%d", argID, argID))
		args = append(args, "%"+*search+"%")
		argID++
	}

	queryBuilder.WriteString(" ORDER BY full_name ASC")

	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argID))
		args = append(args, pageSize)
		argID++
		if page > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argID))
			args = append(args, (page-1)*pageSize)
			argID++
		}
	}

	rows, err := exec.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying customers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	totalCount := 0
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(
			&c.ID, &c.FullName, &c.PhoneNumber, &c.Email,
			&c.CreatedAt, &c.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning customer row: %v", ErrDatabaseError, err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating customer rows: %v", ErrDatabaseError, err)
	}
	return customers, totalCount, nil
}

func (r *customerRepository) UpdateCustomer(exec SQLExecutor, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET full_name = $1, phone_number = $2, email = $3, updated_at = NOW()
		WHERE id = $4`
	result, err := exec.Exec(query, customer.FullName, customer.PhoneNumber, customer.Email, customer.ID)
	if err != nil {
		return fmt.Errorf("%w: updating customer %d: %v", ErrDatabaseError, customer.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking rows affected for customer %d: %v", ErrDatabaseError, customer.ID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: customer with ID %d", ErrNotFound, customer.ID)
	}
	return nil
}

func (r *customerRepository) DeleteCustomer(exec SQLExecutor, id int64) error {
	result, err := exec.Exec(`DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting customer %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking rows affected for customer %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: customer with ID %d", ErrNotFound, id)
	}
	return nil
}
