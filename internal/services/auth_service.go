package services

import (
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
	"pos_backend/pkg/utils"
)

// AuthService defines registration and login operations.
type AuthService interface {
	Register(req RegisterRequest) (*models.User, error)
	Login(req LoginRequest) (*LoginResponse, error)
	GetUserByID(id int64) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	db       *sql.DB
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, db *sql.DB) AuthService {
	return &authService{userRepo: userRepo, db: db}
}

// RegisterRequest defines the payload for creating a user account.
type RegisterRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Password string  `json:"password" binding:"required,min=8"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	FullName *string `json:"full_name,omitempty"`
	Role     string  `json:"role,omitempty"` // Admin | Cashier | Inventory; defaults to Cashier
}

// LoginRequest defines the payload for logging in.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

func (s *authService) Register(req RegisterRequest) (*models.User, error) {
	roleName := req.Role
	if roleName == "" {
		roleName = models.RoleCashier
	}
	switch roleName {
	case models.RoleAdmin, models.RoleCashier, models.RoleInventory:
	default:
		return nil, fmt.Errorf("%w: unknown role '%s'", ErrValidation, req.Role)
	}

	role, err := s.userRepo.GetRoleByName(s.db, roleName)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving role: %v", ErrInternal, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hashing password: %v", ErrInternal, err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		FullName:     req.FullName,
		RoleID:       &role.ID,
	}
	if _, err := s.userRepo.CreateUser(s.db, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: username or email already taken", ErrDuplicate)
		}
		return nil, fmt.Errorf("%w: creating user: %v", ErrInternal, err)
	}
	user.Role = role
	return user, nil
}

func (s *authService) Login(req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.GetUserByUsername(s.db, req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: looking up user: %v", ErrInternal, err)
	}
	if !user.IsActive {
		return nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrUnauthorized
	}

	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}
	token, err := utils.GenerateAccessToken(user.ID, user.Username, roleName)
	if err != nil {
		return nil, fmt.Errorf("%w: issuing token: %v", ErrInternal, err)
	}
	return &LoginResponse{AccessToken: token, User: user}, nil
}

func (s *authService) GetUserByID(id int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: getting user: %v", ErrInternal, err)
	}
	return user, nil
}
