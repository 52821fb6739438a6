package handlers

import (
	"ix-simulation/internal/api/models"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, models.NewError(code, msg))
}
