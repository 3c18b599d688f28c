package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/pkg/crypto"
	apperrors "github.com/taskhive/taskhive/pkg/errors"
	"github.com/taskhive/taskhive/pkg/metrics"
)

// ErrUserExists signals a username or email collision during registration.
var ErrUserExists = apperrors.NewConflict("A user with that username or email already exists")

// RegisterInput carries the fields accepted by registration.
type RegisterInput struct {
	Username  string `json:"username" validate:"required,min=3,max=64,alphanum"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// UserService handles account registration and credential verification.
type UserService struct {
	db *gorm.DB
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	return &UserService{db: db}, nil
}

// Register creates the account together with a personal workspace the user
// owns, in one transaction.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user service: hash password: %w", err)
	}

	user := models.User{
		Username:  strings.TrimSpace(input.Username),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Password:  hashed,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if isUniqueConstraintError(err) {
				return ErrUserExists
			}
			return fmt.Errorf("user service: create user: %w", err)
		}

		workspace := models.Workspace{Name: fmt.Sprintf("%s's workspace", user.Username)}
		if err := tx.Create(&workspace).Error; err != nil {
			return fmt.Errorf("user service: create personal workspace: %w", err)
		}

		membership := models.Membership{
			UserID:      user.ID,
			WorkspaceID: workspace.ID,
			Role:        models.RoleOwner,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return fmt.Errorf("user service: create owner membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Authenticate verifies a username (or email) and password pair.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	ctx = ensureContext(ctx)

	identifier = strings.TrimSpace(identifier)

	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return &user, nil
}

// GetByID loads an account by identifier.
func (s *UserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}
	return &user, nil
}
