package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Validation and conflict codes surfaced to the pages that render them
const (
	CodePasswordMismatch      = "PASSWORD_MISMATCH"
	CodeMissingFields         = "MISSING_FIELDS"
	CodeFieldTooLong          = "FIELD_TOO_LONG"
	CodeInvalidPassword       = "INVALID_PASSWORD"
	CodeSelectionRequired     = "SELECTION_REQUIRED"
	CodeDepartmentRequired    = "DEPARTMENT_REQUIRED"
	CodeInvalidPhone          = "INVALID_PHONE"
	CodeInvalidEmail          = "INVALID_EMAIL"
	CodeUsernameTaken         = "USERNAME_TAKEN"
	CodeEmailTaken            = "EMAIL_TAKEN"
	CodePhoneTaken            = "PHONE_TAKEN"
	CodeTIDMismatch           = "TID_MISMATCH"
	CodeInvalidTID            = "INVALID_TID"
	CodeInvalidDeliveryTime   = "INVALID_DELIVERY_TIME"
	CodeDeliveryTooSoon       = "DELIVERY_TOO_SOON"
	CodeDuplicateOrderTID     = "DUPLICATE_ORDER_TID"
	CodeDuplicateTransaction  = "DUPLICATE_TRANSACTION_TID"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeDatabaseError         = "DATABASE_ERROR"
	CodeTransactionRolledBack = "TRANSACTION_FAILED"
)

var (
	// ErrCartEmpty is returned when a customer verifies a payment with nothing in the cart
	ErrCartEmpty = errors.New("cart is empty")
	// ErrMultiShopCart is returned when cart items come from more than one shop
	ErrMultiShopCart = errors.New("cart contains items from more than one shop")
)

// ValidationError is a user-facing rejection: bad input or a uniqueness conflict
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// IsValidationError reports whether err is (or wraps) a ValidationError with the given code.
// An empty code matches any ValidationError.
func IsValidationError(err error, code string) bool {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	return code == "" || verr.Code == code
}

// DatabaseError wraps a persistence failure together with the driver's error code
type DatabaseError struct {
	Code string
	Op   string
	Err  error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func newDatabaseError(op string, err error) *DatabaseError {
	return &DatabaseError{Code: driverErrorCode(err), Op: op, Err: err}
}

// driverErrorCode extracts the SQLSTATE from a Postgres error, or a generic code otherwise
func driverErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return CodeDatabaseError
}

// isUniqueViolation detects duplicate-key failures (works with both PostgreSQL and SQLite)
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate") ||
		strings.Contains(errMsg, "unique constraint")
}
