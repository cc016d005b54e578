package models

import "time"

// AccountType is the customer category chosen at registration
type AccountType string

const (
	AccountTypeStudent AccountType = "STD"
	AccountTypeStaff   AccountType = "STF"
	AccountTypeOther   AccountType = "OTH"
)

// Placeholder is the value select inputs submit when nothing was chosen
const Placeholder = "-"

// IsValid reports whether t is one of the known account types
func (t AccountType) IsValid() bool {
	return t == AccountTypeStudent || t == AccountTypeStaff || t == AccountTypeOther
}

// RequiresDepartment reports whether customers of this type must pick a department
func (t AccountType) RequiresDepartment() bool {
	return t == AccountTypeStudent || t == AccountTypeStaff
}

// Customer represents a registered customer of the canteen
type Customer struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Username     string      `gorm:"uniqueIndex;size:45;not null" json:"username"`
	PasswordHash string      `gorm:"column:password_hash;not null" json:"-"`
	FirstName    string      `gorm:"size:45;not null" json:"first_name"`
	LastName     string      `gorm:"size:45;not null" json:"last_name"`
	Gender       string      `gorm:"size:10;not null" json:"gender"`
	Email        string      `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Type         AccountType `gorm:"size:3;not null" json:"type"`
	Phone        string      `gorm:"uniqueIndex;size:10;not null" json:"phone"`
	Department   string      `gorm:"size:45" json:"department"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customer"
}
