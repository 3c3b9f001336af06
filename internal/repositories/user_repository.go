package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"pos_backend/internal/models"
)

// UserRepository defines methods for interacting with user data.
type UserRepository interface {
	CreateUser(exec SQLExecutor, user *models.User) (int64, error)
	GetUserByUsername(exec SQLExecutor, username string) (*models.User, error)
	GetUserByID(exec SQLExecutor, id int64) (*models.User, error)
	GetRoleByName(exec SQLExecutor, name string) (*models.Role, error)
}

type userRepository struct{}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) CreateUser(exec SQLExecutor, user *models.User) (int64, error) {
	query := `
		INSERT INTO users (username, password_hash, email, full_name, role_id, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id`
	err := exec.QueryRow(query,
		user.Username, user.PasswordHash, user.Email, user.FullName, user.RoleID,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: username or email already taken", ErrDuplicateKey)
		}
		return 0, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return user.ID, nil
}

const userSelect = `
	SELECT u.id, u.username, u.password_hash, u.email, u.full_name, u.role_id,
	       u.is_active, u.created_at, u.updated_at, r.id, r.name
	FROM users u
	LEFT JOIN roles r ON r.id = u.role_id`

func scanUser(scanner interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	var roleID sql.NullInt64
	var roleName sql.NullString
	err := scanner.Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Email,
		&user.FullName, &user.RoleID, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt, &roleID, &roleName,
	)
	if err != nil {
		return nil, err
	}
	if roleID.Valid {
		user.Role = &models.Role{ID: roleID.Int64, Name: roleName.String}
	}
	return user, nil
}

func (r *userRepository) GetUserByUsername(exec SQLExecutor, username string) (*models.User, error) {
	user, err := scanUser(exec.QueryRow(userSelect+` WHERE u.username = $1`, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user '%s'", ErrNotFound, username)
		}
		return nil, fmt.Errorf("%w: getting user by username '%s': %v", ErrDatabaseError, username, err)
	}
	return user, nil
}

func (r *userRepository) GetUserByID(exec SQLExecutor, id int64) (*models.User, error) {
	user, err := scanUser(exec.QueryRow(userSelect+` WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user with ID %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: getting user by ID %d: %v", ErrDatabaseError, id, err)
	}
	return user, nil
}

func (r *userRepository) GetRoleByName(exec SQLExecutor, name string) (*models.Role, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM roles WHERE name = $1`
	role := &models.Role{}
	err := exec.QueryRow(query, name).Scan(
		&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: role '%s'", ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: getting role '%s': %v", ErrDatabaseError, name, err)
	}
	return role, nil
}
