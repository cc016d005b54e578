package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kendall-kelly/campus-eats-api/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcrypt ignores everything past 72 bytes, so longer passwords are refused outright
const maxPasswordBytes = 72

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// RegistrationForm is the new-customer form submission
type RegistrationForm struct {
	Username        string `form:"username"`
	FirstName       string `form:"firstname"`
	LastName        string `form:"lastname"`
	Gender          string `form:"gender"`
	Email           string `form:"email"`
	Type            string `form:"type"`
	PhoneNumber     string `form:"phone_number"`
	Department      string `form:"department"`
	Password        string `form:"pwd"`
	ConfirmPassword string `form:"cfpwd"`
}

// RegistrationService validates and persists new customers
type RegistrationService struct {
	db       *gorm.DB
	validate *validator.Validate
	hashCost int
}

// NewRegistrationService creates a registration service backed by db
func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{
		db:       db,
		validate: validator.New(),
		hashCost: bcrypt.DefaultCost,
	}
}

// Register runs the registration checks in order and inserts the customer.
// Every check fails fast; nothing touches the database before the input checks pass.
func (s *RegistrationService) Register(ctx context.Context, form RegistrationForm) (*models.Customer, error) {
	if form.Password != form.ConfirmPassword {
		return nil, newValidationError(CodePasswordMismatch, "Passwords do not match.")
	}

	form.Username = strings.TrimSpace(form.Username)
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Email = strings.TrimSpace(form.Email)
	form.PhoneNumber = strings.TrimSpace(form.PhoneNumber)

	if missing := missingRegistrationFields(form); len(missing) > 0 {
		return nil, newValidationError(CodeMissingFields, "Missing required fields: "+strings.Join(missing, ", "))
	}
	if err := checkFieldLengths(s.validate, []fieldLimit{
		{"username", form.Username, maxUsernameLength},
		{"firstname", form.FirstName, maxPersonNameLength},
		{"lastname", form.LastName, maxPersonNameLength},
		{"gender", form.Gender, maxGenderLength},
		{"email", form.Email, maxEmailLength},
		{"department", strings.TrimSpace(form.Department), maxDepartmentLength},
	}); err != nil {
		return nil, err
	}
	if len(form.Password) > maxPasswordBytes {
		return nil, newValidationError(CodeInvalidPassword, "Password must be at most 72 bytes long.")
	}

	accountType := models.AccountType(form.Type)
	if isPlaceholder(form.Gender) || !accountType.IsValid() {
		return nil, newValidationError(CodeSelectionRequired, "Please select gender and role.")
	}

	department := strings.TrimSpace(form.Department)
	if accountType.RequiresDepartment() && isPlaceholder(department) {
		return nil, newValidationError(CodeDepartmentRequired, "Please select your department/course!")
	}
	if isPlaceholder(department) {
		department = ""
	}

	if !phonePattern.MatchString(form.PhoneNumber) {
		return nil, newValidationError(CodeInvalidPhone, "Invalid 10-digit phone number!")
	}

	if err := s.validate.Var(form.Email, "email"); err != nil {
		return nil, newValidationError(CodeInvalidEmail, "Invalid email format.")
	}

	if err := s.checkAvailable(ctx, form.Username, form.Email, form.PhoneNumber); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Username:     form.Username,
		PasswordHash: string(hash),
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Gender:       form.Gender,
		Email:        form.Email,
		Type:         accountType,
		Phone:        form.PhoneNumber,
		Department:   department,
	}

	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		if isUniqueViolation(err) {
			// A concurrent registration won the race; report the field it collided on
			if conflict := s.checkAvailable(ctx, form.Username, form.Email, form.PhoneNumber); IsValidationError(conflict, "") {
				return nil, conflict
			}
			return nil, newValidationError(CodeUsernameTaken, "Username, email or phone number already in use!")
		}
		logrus.WithError(err).WithField("username", form.Username).Error("failed to insert customer")
		return nil, newDatabaseError("insert customer", err)
	}

	logrus.WithFields(logrus.Fields{
		"customer_id": customer.ID,
		"type":        customer.Type,
	}).Info("customer registered")

	return customer, nil
}

// checkAvailable runs the username, email and phone uniqueness checks in that order
func (s *RegistrationService) checkAvailable(ctx context.Context, username, email, phone string) error {
	checks := []struct {
		column  string
		value   string
		code    string
		message string
	}{
		{"username", username, CodeUsernameTaken, "Username already taken!"},
		{"email", email, CodeEmailTaken, "Email already in use!"},
		{"phone", phone, CodePhoneTaken, "Phone number already in use!"},
	}

	for _, check := range checks {
		taken, err := s.exists(ctx, check.column, check.value)
		if err != nil {
			logrus.WithError(err).WithField("column", check.column).Error("customer uniqueness check failed")
			return newDatabaseError("check "+check.column, err)
		}
		if taken {
			return newValidationError(check.code, check.message)
		}
	}
	return nil
}

func (s *RegistrationService) exists(ctx context.Context, column, value string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where(column+" = ?", value).
		Count(&count).Error
	return count > 0, err
}

func missingRegistrationFields(form RegistrationForm) []string {
	fields := []struct {
		name  string
		value string
	}{
		{"username", form.Username},
		{"firstname", form.FirstName},
		{"lastname", form.LastName},
		{"email", form.Email},
		{"phone_number", form.PhoneNumber},
		{"pwd", form.Password},
	}

	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func isPlaceholder(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || value == models.Placeholder
}
