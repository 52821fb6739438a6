package middleware

import (
	"time"

	"ix-simulation/internal/logging"

	"github.com/gin-gonic/gin"
)

// Logger writes one line per request.
func Logger(log *logging.Logger) gin.HandlerFunc {
	if log == nil {
		log = logging.Nop()
	}
	log = log.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		fields := map[string]any{
			"method":               c.Request.Method,
			"path":                 path,
			"status":               c.Writer.Status(),
			"latency":              time.Since(start).String(),
			"client_ip":            c.ClientIP(),
			logging.FieldRequestID: c.GetString(RequestIDKey),
		}
		switch {
		case len(c.Errors) > 0:
			log.Error("request", c.Errors.Last().Err, fields)
		case c.Writer.Status() >= 500:
			log.Warn("request", fields)
		default:
			log.Info("request", fields)
		}
	}
}
