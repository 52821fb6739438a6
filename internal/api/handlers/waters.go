package handlers

import (
	"net/http"

	"ix-simulation/internal/data"

	"github.com/gin-gonic/gin"
)

// WaterHandler serves the sample water catalog
type WaterHandler struct {
	catalog *data.WaterCatalog
}

func NewWaterHandler(catalog *data.WaterCatalog) *WaterHandler {
	if catalog == nil {
		catalog = data.DefaultCatalog()
	}
	return &WaterHandler{catalog: catalog}
}

// ListWaters handles GET /api/v1/waters
func (h *WaterHandler) ListWaters(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog)
}

// GetWater handles GET /api/v1/waters/:name
func (h *WaterHandler) GetWater(c *gin.Context) {
	name := c.Param("name")
	w, ok := h.catalog.Find(name)
	if !ok {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "water "+name+" not in catalog")
		return
	}
	c.JSON(http.StatusOK, w)
}
