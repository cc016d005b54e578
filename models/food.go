package models

import "time"

// Shop is a canteen outlet that owns food items
type Shop struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the Shop model
func (Shop) TableName() string {
	return "shop"
}

// Food is a menu item sold by exactly one shop
type Food struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	ShopID    uint      `gorm:"not null;index" json:"shop_id"`
	Shop      Shop      `gorm:"foreignKey:ShopID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the Food model
func (Food) TableName() string {
	return "food"
}

// CartItem is one line of a customer's pending selection
type CartItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	Customer   Customer  `gorm:"foreignKey:CustomerID" json:"-"`
	FoodID     uint      `gorm:"not null" json:"food_id"`
	Food       Food      `gorm:"foreignKey:FoodID" json:"food"`
	Quantity   int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	Note       string    `gorm:"type:text" json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the CartItem model
func (CartItem) TableName() string {
	return "cart"
}
