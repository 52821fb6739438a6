package middleware

import (
	"ix-simulation/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// RequestID tags each request with an id (the client's X-Request-ID when
// present) and stores a request-scoped logger in the request context.
func RequestID(log *logging.Logger) gin.HandlerFunc {
	if log == nil {
		log = logging.Nop()
	}
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		ctx := logging.IntoContext(c.Request.Context(), log.With(logging.FieldRequestID, id))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
