package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kendall-kelly/campus-eats-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	minTIDLength = 12
	maxTIDLength = 45

	deliveryTimeLayout = "15:04"

	// DefaultDeliveryLeadTime is how far ahead of now a delivery slot has to be
	DefaultDeliveryLeadTime = 30 * time.Minute
	// DefaultPendingOrderTTL bounds how long the order-creation step may take to pick up a verified order
	DefaultPendingOrderTTL = 15 * time.Minute
)

// PaymentForm is the payment confirmation submitted from the checkout page
type PaymentForm struct {
	Name          string `form:"name"`
	Email         string `form:"email"`
	RollNo        string `form:"rollno"`
	Year          string `form:"year"`
	BranchSection string `form:"branch_section"`
	DeliveryTime  string `form:"delivery_time"`
	OrderType     string `form:"order_type"`
	DeliveryNotes string `form:"delivery_notes"`
	TID           string `form:"tid"`
	ConfirmTID    string `form:"cftid"`
	TermsAccepted string `form:"tandc"`
}

func (f PaymentForm) trimmed() PaymentForm {
	return PaymentForm{
		Name:          strings.TrimSpace(f.Name),
		Email:         strings.TrimSpace(f.Email),
		RollNo:        strings.TrimSpace(f.RollNo),
		Year:          strings.TrimSpace(f.Year),
		BranchSection: strings.TrimSpace(f.BranchSection),
		DeliveryTime:  strings.TrimSpace(f.DeliveryTime),
		OrderType:     strings.TrimSpace(f.OrderType),
		DeliveryNotes: strings.TrimSpace(f.DeliveryNotes),
		TID:           strings.TrimSpace(f.TID),
		ConfirmTID:    strings.TrimSpace(f.ConfirmTID),
		TermsAccepted: strings.TrimSpace(f.TermsAccepted),
	}
}

// missingFields lists blank required fields in form order
func (f PaymentForm) missingFields() []string {
	fields := []struct {
		name  string
		value string
	}{
		{"name", f.Name},
		{"email", f.Email},
		{"rollno", f.RollNo},
		{"year", f.Year},
		{"branch_section", f.BranchSection},
		{"delivery_time", f.DeliveryTime},
		{"order_type", f.OrderType},
		{"tid", f.TID},
		{"cftid", f.ConfirmTID},
		{"tandc", f.TermsAccepted},
	}

	var missing []string
	for _, field := range fields {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// PendingOrderSink receives the verified order for the order-creation step.
// SavePendingOrder runs inside the database unit of work, so a failure there rolls back the insert.
type PendingOrderSink interface {
	SavePendingOrder(ctx context.Context, order *models.PendingOrder) error
	ClearPendingOrder(ctx context.Context, customerID uint) error
}

// Verification is the outcome of a committed payment verification
type Verification struct {
	Transaction  models.Transaction
	PendingOrder *models.PendingOrder
}

// TransactionService verifies payment confirmations and records transactions
type TransactionService struct {
	db              *gorm.DB
	sink            PendingOrderSink
	validate        *validator.Validate
	now             func() time.Time
	location        *time.Location
	leadTime        time.Duration
	pendingOrderTTL time.Duration
}

// TransactionOption customizes a TransactionService
type TransactionOption func(*TransactionService)

// WithClock replaces the wall clock used for delivery-time and expiry checks
func WithClock(now func() time.Time) TransactionOption {
	return func(s *TransactionService) { s.now = now }
}

// WithLocation sets the time zone delivery times are interpreted in
func WithLocation(loc *time.Location) TransactionOption {
	return func(s *TransactionService) { s.location = loc }
}

// WithLeadTime sets how far ahead of now a delivery slot must be
func WithLeadTime(d time.Duration) TransactionOption {
	return func(s *TransactionService) { s.leadTime = d }
}

// WithPendingOrderTTL sets how long a verified order waits for the order-creation step
func WithPendingOrderTTL(d time.Duration) TransactionOption {
	return func(s *TransactionService) { s.pendingOrderTTL = d }
}

// NewTransactionService creates a transaction service that hands verified orders to sink
func NewTransactionService(db *gorm.DB, sink PendingOrderSink, opts ...TransactionOption) *TransactionService {
	s := &TransactionService{
		db:              db,
		sink:            sink,
		validate:        validator.New(),
		now:             time.Now,
		location:        time.Local,
		leadTime:        DefaultDeliveryLeadTime,
		pendingOrderTTL: DefaultPendingOrderTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify validates the payment form, aggregates the customer's cart and records the
// transaction. The pending order is handed to the sink before the unit of work commits.
func (s *TransactionService) Verify(ctx context.Context, customerID uint, form PaymentForm) (*Verification, error) {
	form = form.trimmed()

	if missing := form.missingFields(); len(missing) > 0 {
		return nil, newValidationError(CodeMissingFields, "Missing required fields: "+strings.Join(missing, ", "))
	}
	if err := checkFieldLengths(s.validate, []fieldLimit{
		{"name", form.Name, maxPayerNameLength},
		{"email", form.Email, maxEmailLength},
		{"rollno", form.RollNo, maxRollNoLength},
		{"year", form.Year, maxYearLength},
		{"branch_section", form.BranchSection, maxBranchSectionLength},
		{"order_type", form.OrderType, maxOrderTypeLength},
	}); err != nil {
		return nil, err
	}
	if form.TID != form.ConfirmTID {
		return nil, newValidationError(CodeTIDMismatch, "Transaction IDs do not match")
	}
	if err := s.validate.Var(form.Email, "email"); err != nil {
		return nil, newValidationError(CodeInvalidEmail, "Invalid email format")
	}
	if n := utf8.RuneCountInString(form.TID); n < minTIDLength || n > maxTIDLength {
		return nil, newValidationError(CodeInvalidTID, "Invalid transaction ID format")
	}
	if err := s.checkDeliveryTime(form.DeliveryTime); err != nil {
		return nil, err
	}
	if err := s.checkTIDUnused(ctx, form.TID); err != nil {
		return nil, err
	}

	lines, shopID, err := s.loadCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, line := range lines {
		total += float64(line.Quantity) * line.UnitPrice
	}
	total = math.Round(total*100) / 100

	txn := models.Transaction{
		TID:           form.TID,
		CustomerID:    customerID,
		OrderCost:     total,
		Name:          form.Name,
		Email:         form.Email,
		RollNo:        form.RollNo,
		Year:          form.Year,
		BranchSection: form.BranchSection,
		DeliveryTime:  form.DeliveryTime,
		DeliveryNotes: form.DeliveryNotes,
		OrderType:     form.OrderType,
	}

	var pending *models.PendingOrder
	saved := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		pending = &models.PendingOrder{
			Token:           uuid.NewString(),
			CustomerID:      customerID,
			TransactionID:   txn.TID,
			TransactionDBID: txn.ID,
			Details: models.OrderDetails{
				Name:          form.Name,
				Email:         form.Email,
				RollNo:        form.RollNo,
				Year:          form.Year,
				BranchSection: form.BranchSection,
				DeliveryTime:  form.DeliveryTime,
				OrderType:     form.OrderType,
				DeliveryNotes: form.DeliveryNotes,
				OrderTotal:    total,
				ShopID:        shopID,
				CartItems:     lines,
			},
			ExpiresAt: s.now().Add(s.pendingOrderTTL),
		}

		if s.sink == nil {
			return nil
		}
		if err := s.sink.SavePendingOrder(ctx, pending); err != nil {
			return err
		}
		saved = true
		return nil
	})
	if err != nil {
		if saved {
			if clearErr := s.sink.ClearPendingOrder(ctx, customerID); clearErr != nil {
				logrus.WithError(clearErr).WithField("customer_id", customerID).Warn("failed to clear pending order after rollback")
			}
		}
		if isUniqueViolation(err) {
			return nil, newValidationError(CodeDuplicateTransaction, "This transaction ID has already been used.")
		}

		logrus.WithError(err).WithFields(logrus.Fields{
			"customer_id": customerID,
			"tid":         form.TID,
		}).Error("transaction verification rolled back")

		dbErr := newDatabaseError("record transaction", err)
		if dbErr.Code == CodeDatabaseError {
			dbErr.Code = CodeTransactionRolledBack
		}
		return nil, dbErr
	}

	logrus.WithFields(logrus.Fields{
		"customer_id":    customerID,
		"transaction_id": txn.ID,
		"order_total":    total,
		"shop_id":        shopID,
	}).Info("transaction verified")

	return &Verification{Transaction: txn, PendingOrder: pending}, nil
}

// checkDeliveryTime requires an HH:MM slot later today that is strictly beyond the lead time
func (s *TransactionService) checkDeliveryTime(value string) error {
	parsed, err := time.ParseInLocation(deliveryTimeLayout, value, s.location)
	if err != nil {
		return newValidationError(CodeInvalidDeliveryTime, "Invalid delivery time format")
	}

	now := s.now().In(s.location)
	slot := time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, s.location)
	if !slot.After(now.Add(s.leadTime)) {
		minutes := int(s.leadTime.Minutes())
		return newValidationError(CodeDeliveryTooSoon, fmt.Sprintf("Delivery time must be at least %d minutes from now", minutes))
	}
	return nil
}

// checkTIDUnused rejects identifiers already used by a finalized order or a recorded transaction
func (s *TransactionService) checkTIDUnused(ctx context.Context, tid string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.OrderHeader{}).Where("t_id = ?", tid).Count(&count).Error; err != nil {
		logrus.WithError(err).Error("order header lookup failed")
		return newDatabaseError("check order header", err)
	}
	if count > 0 {
		return newValidationError(CodeDuplicateOrderTID, "Transaction ID already exists. Please use a different transaction ID.")
	}

	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("tid = ?", tid).Count(&count).Error; err != nil {
		logrus.WithError(err).Error("transaction lookup failed")
		return newDatabaseError("check transaction", err)
	}
	if count > 0 {
		return newValidationError(CodeDuplicateTransaction, "This transaction ID has already been used.")
	}
	return nil
}

// loadCart snapshots the customer's cart with food prices and checks it belongs to a single shop
func (s *TransactionService) loadCart(ctx context.Context, customerID uint) ([]models.CartLine, uint, error) {
	var items []models.CartItem
	err := s.db.WithContext(ctx).
		InnerJoins("Food").
		Where("cart.customer_id = ?", customerID).
		Order("cart.id").
		Find(&items).Error
	if err != nil {
		logrus.WithError(err).WithField("customer_id", customerID).Error("cart lookup failed")
		return nil, 0, newDatabaseError("load cart", err)
	}
	if len(items) == 0 {
		return nil, 0, ErrCartEmpty
	}

	shopID := items[0].Food.ShopID
	lines := make([]models.CartLine, 0, len(items))
	for _, item := range items {
		if item.Food.ShopID != shopID {
			return nil, 0, ErrMultiShopCart
		}
		lines = append(lines, models.CartLine{
			FoodID:    item.FoodID,
			Quantity:  item.Quantity,
			UnitPrice: item.Food.Price,
			Note:      item.Note,
			ShopID:    item.Food.ShopID,
		})
	}
	return lines, shopID, nil
}
