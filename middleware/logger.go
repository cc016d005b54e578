package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes one structured access log entry per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}
		if cid, err := GetCustomerID(c); err == nil {
			fields["customer_id"] = cid
		}

		entry := logrus.WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request failed")
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Warn("request completed with errors")
		default:
			entry.Info("request completed")
		}
	}
}
