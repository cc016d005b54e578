package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kendall-kelly/campus-eats-api/config"
	"github.com/kendall-kelly/campus-eats-api/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in TestMain or suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}

	// Verify it was set
	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("Failed to verify GO_ENV=test")
	}
}

// TestConfig returns a configuration suitable for in-process tests
func TestConfig() *config.Config {
	return &config.Config{
		DatabaseURL:      "sqlite://memory",
		Port:             "8080",
		GoEnv:            "test",
		RedisURL:         "redis://localhost:6379/0",
		SessionSecret:    "test-session-secret-with-enough-length",
		SessionIssuer:    "campus-eats",
		SessionAudience:  "campus-eats-web",
		SessionTTL:       time.Hour,
		PendingOrderTTL:  15 * time.Minute,
		DeliveryLeadTime: 30 * time.Minute,
		Timezone:         "UTC",
		LogLevel:         "error",
	}
}

// NewTestDB opens a migrated in-memory SQLite database.
// The pool is limited to one connection so every query sees the same database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// NewTestRedis starts an in-process Redis server and returns a client for it
func NewTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// PrintEnvironmentInfo prints the current test environment configuration.
// Useful for debugging test environment issues.
func PrintEnvironmentInfo() {
	fmt.Printf("Test Environment Info:\n")
	fmt.Printf("  GO_ENV: %s\n", os.Getenv("GO_ENV"))
	fmt.Printf("  DATABASE_URL: %s\n", maskURL(os.Getenv("DATABASE_URL")))
	fmt.Printf("  REDIS_URL: %s\n", maskURL(os.Getenv("REDIS_URL")))
}

// maskURL hides everything after the scheme and host prefix of a connection URL
func maskURL(url string) string {
	if url == "" {
		return "(not set)"
	}
	if len(url) > 20 {
		url = url[:20] + "..."
	}
	if strings.Contains(url, "test") {
		return url + " [contains 'test']"
	}
	return url + " [WARNING: may not be test DB]"
}
