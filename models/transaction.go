package models

import "time"

// Transaction records one verified payment confirmation
type Transaction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TID           string    `gorm:"column:tid;uniqueIndex;size:45;not null" json:"tid"` // externally issued payment reference
	CustomerID    uint      `gorm:"not null;index" json:"customer_id"`
	Customer      Customer  `gorm:"foreignKey:CustomerID" json:"-"`
	OrderCost     float64   `gorm:"type:decimal(10,2);not null" json:"order_cost"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Email         string    `gorm:"size:100;not null" json:"email"`
	RollNo        string    `gorm:"column:rollno;size:45;not null" json:"rollno"`
	Year          string    `gorm:"size:10;not null" json:"year"`
	BranchSection string    `gorm:"size:45;not null" json:"branch_section"`
	DeliveryTime  string    `gorm:"size:5;not null" json:"delivery_time"` // HH:MM on the day of the order
	DeliveryNotes string    `gorm:"type:text" json:"delivery_notes"`
	OrderType     string    `gorm:"size:20;not null" json:"order_type"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for the Transaction model
func (Transaction) TableName() string {
	return "transaction"
}

// OrderHeader is a finalized order written by the order-creation step.
// This service only checks it for transaction identifier collisions.
type OrderHeader struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TID        string    `gorm:"column:t_id;uniqueIndex;size:45;not null" json:"t_id"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	ShopID     uint      `gorm:"not null;index" json:"shop_id"`
	Status     string    `gorm:"size:20;not null;default:'ACPT'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the OrderHeader model
func (OrderHeader) TableName() string {
	return "order_header"
}
