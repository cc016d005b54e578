package services

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kendall-kelly/campus-eats-api/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Every query must see the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func createTestCustomer(t *testing.T, db *gorm.DB, username string) models.Customer {
	customer := models.Customer{
		Username:     username,
		PasswordHash: "not-a-real-hash",
		FirstName:    "Test",
		LastName:     "Customer",
		Gender:       "F",
		Email:        username + "@campus.edu",
		Type:         models.AccountTypeOther,
		Phone:        phoneFor(username),
	}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

// phoneFor derives a stable 10-digit phone number from a username
func phoneFor(username string) string {
	digits := []byte("9000000000")
	for i, c := range []byte(username) {
		pos := 9 - (i % 9)
		digits[pos] = '0' + byte((int(digits[pos]-'0')+int(c))%10)
	}
	return string(digits)
}

func createTestFood(t *testing.T, db *gorm.DB, shopName, name string, price float64) models.Food {
	var shop models.Shop
	require.NoError(t, db.Where(models.Shop{Name: shopName}).FirstOrCreate(&shop).Error)

	food := models.Food{Name: name, Price: price, ShopID: shop.ID}
	require.NoError(t, db.Create(&food).Error)
	return food
}

func addToCart(t *testing.T, db *gorm.DB, customerID uint, food models.Food, quantity int, note string) {
	item := models.CartItem{CustomerID: customerID, FoodID: food.ID, Quantity: quantity, Note: note}
	require.NoError(t, db.Create(&item).Error)
}

// insertBeforeCreate writes row just before the next insert into table, the way a
// concurrent request that passed the same availability checks would
func insertBeforeCreate(t *testing.T, db *gorm.DB, table string, row interface{}) {
	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("campus_eats:concurrent_"+table, func(tx *gorm.DB) {
		if fired || tx.Statement.Table != table {
			return
		}
		fired = true
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(row).Error; err != nil {
			tx.AddError(err)
		}
	})
	require.NoError(t, err)
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
