package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kendall-kelly/campus-eats-api/config"
)

// SessionCookieName is the cookie carrying the signed session token
const SessionCookieName = "session"

// IssueSessionToken signs an HS256 session token whose subject is the customer id
func IssueSessionToken(cfg *config.Config, customerID uint) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    cfg.SessionIssuer,
		Audience:  jwt.ClaimStrings{cfg.SessionAudience},
		Subject:   strconv.FormatUint(uint64(customerID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.SessionTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SessionSecret))
}

// SetSessionCookie stores the session token in an HTTP-only cookie
func SetSessionCookie(c *gin.Context, cfg *config.Config, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(cfg.SessionTTL.Seconds()), "/", "", cfg.IsProduction(), true)
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c *gin.Context, cfg *config.Config) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", cfg.IsProduction(), true)
}
