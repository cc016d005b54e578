package testutil

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/campus-eats-api/config"
	"github.com/kendall-kelly/campus-eats-api/middleware"
)

// SessionCookie returns a signed session cookie for the customer
func SessionCookie(t *testing.T, cfg *config.Config, customerID uint) *http.Cookie {
	t.Helper()

	token, err := middleware.IssueSessionToken(cfg, customerID)
	if err != nil {
		t.Fatalf("Failed to issue session token: %v", err)
	}
	return &http.Cookie{Name: middleware.SessionCookieName, Value: token}
}

// MockSession is a middleware that authenticates every request as the given customer
func MockSession(customerID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetCustomerID(c, customerID)
		c.Next()
	}
}
