package services

import (
	"context"
	"errors"
	"strings"

	"github.com/kendall-kelly/campus-eats-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService checks customer credentials for the login step
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates a new auth service instance
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Authenticate looks up the customer by username and compares the bcrypt hash.
// Unknown usernames and wrong passwords produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.Customer, error) {
	invalid := newValidationError(CodeInvalidCredentials, "Invalid username or password.")

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalid
	}

	var customer models.Customer
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, newDatabaseError("find customer", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)) != nil {
		return nil, invalid
	}

	return &customer, nil
}
