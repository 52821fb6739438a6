package middleware

import (
	"fmt"
	"net/http"

	"ix-simulation/internal/api/models"
	"ix-simulation/internal/logging"

	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware handles panics and errors
func ErrorHandler(log *logging.Logger) gin.HandlerFunc {
	if log == nil {
		log = logging.Nop()
	}
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered", fmt.Errorf("%v", recovered), map[string]any{
			"path":                 c.Request.URL.Path,
			logging.FieldRequestID: c.GetString(RequestIDKey),
		})
		msg := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			msg = s
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.NewError("INTERNAL_ERROR", msg))
	})
}
