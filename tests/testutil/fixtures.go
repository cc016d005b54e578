package testutil

import (
	"testing"

	"github.com/kendall-kelly/campus-eats-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateCustomer inserts a customer whose password is the given plaintext
func CreateCustomer(t *testing.T, db *gorm.DB, username, phone, password string) models.Customer {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	customer := models.Customer{
		Username:     username,
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     "Customer",
		Gender:       "F",
		Email:        username + "@campus.edu",
		Type:         models.AccountTypeStudent,
		Phone:        phone,
		Department:   "CSE",
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("Failed to create customer: %v", err)
	}
	return customer
}

// CreateFood inserts a food item, creating its shop on first use
func CreateFood(t *testing.T, db *gorm.DB, shopName, name string, price float64) models.Food {
	t.Helper()

	var shop models.Shop
	if err := db.Where(models.Shop{Name: shopName}).FirstOrCreate(&shop).Error; err != nil {
		t.Fatalf("Failed to create shop: %v", err)
	}

	food := models.Food{Name: name, Price: price, ShopID: shop.ID}
	if err := db.Create(&food).Error; err != nil {
		t.Fatalf("Failed to create food: %v", err)
	}
	return food
}

// AddToCart puts quantity units of food in the customer's cart
func AddToCart(t *testing.T, db *gorm.DB, customerID uint, food models.Food, quantity int) {
	t.Helper()

	item := models.CartItem{CustomerID: customerID, FoodID: food.ID, Quantity: quantity}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to add cart item: %v", err)
	}
}
