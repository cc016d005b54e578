package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/campus-eats-api/config"
	"github.com/sirupsen/logrus"
)

// LoginPath is where requests without a valid session are sent
const LoginPath = "/login"

const customerIDKey = "cid"

// RequireSession is a middleware that validates the session cookie and stores the customer id.
// Requests without a valid session are redirected to the login page.
func RequireSession(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.SessionSecret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.SessionIssuer,
		[]string{cfg.SessionAudience},
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		logrus.Fatalf("Failed to set up the session validator: %v", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		logrus.WithError(err).WithField("path", r.URL.Path).Debug("session rejected")
		http.Redirect(w, r, LoginPath, http.StatusFound)
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithTokenExtractor(jwtmiddleware.CookieTokenExtractor(SessionCookieName)),
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		passed := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			customerID, err := strconv.ParseUint(claims.RegisteredClaims.Subject, 10, 64)
			if err != nil || customerID == 0 {
				logrus.WithField("subject", claims.RegisteredClaims.Subject).Warn("session token has invalid subject")
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			passed = true
			c.Request = r
			c.Set(customerIDKey, uint(customerID))
			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}

// GetCustomerID extracts the authenticated customer id from the Gin context
func GetCustomerID(c *gin.Context) (uint, error) {
	value, exists := c.Get(customerIDKey)
	if !exists {
		return 0, &AuthError{Code: "MISSING_CUSTOMER_ID", Message: "Customer ID not found in context"}
	}

	customerID, ok := value.(uint)
	if !ok {
		return 0, &AuthError{Code: "INVALID_CUSTOMER_ID", Message: "Customer ID is not a uint"}
	}

	return customerID, nil
}

// SetCustomerID stores the customer id the way RequireSession does
func SetCustomerID(c *gin.Context, customerID uint) {
	c.Set(customerIDKey, customerID)
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
