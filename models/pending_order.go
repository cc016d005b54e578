package models

import "time"

// CartLine is a snapshot of one cart row taken at verification time
type CartLine struct {
	FoodID    uint    `json:"f_id"`
	Quantity  int     `json:"ct_amount"`
	UnitPrice float64 `json:"f_price"`
	Note      string  `json:"ct_note"`
	ShopID    uint    `json:"s_id"`
}

// OrderDetails is the bundle handed to the order-creation step
type OrderDetails struct {
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	RollNo        string     `json:"rollno"`
	Year          string     `json:"year"`
	BranchSection string     `json:"branch_section"`
	DeliveryTime  string     `json:"delivery_time"`
	OrderType     string     `json:"order_type"`
	DeliveryNotes string     `json:"delivery_notes"`
	OrderTotal    float64    `json:"order_total"`
	ShopID        uint       `json:"shop_id"`
	CartItems     []CartLine `json:"cart_items"`
}

// PendingOrder links a committed transaction to the order that still has to be created.
// Token is short-lived and travels with the redirect to the order-creation step.
type PendingOrder struct {
	Token           string       `json:"token"`
	CustomerID      uint         `json:"customer_id"`
	TransactionID   string       `json:"current_transaction_id"`
	TransactionDBID uint         `json:"transaction_db_id"`
	Details         OrderDetails `json:"order_details"`
	ExpiresAt       time.Time    `json:"expires_at"`
}

// Expired reports whether the pending order can no longer be consumed
func (p *PendingOrder) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt)
}
