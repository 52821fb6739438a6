package handlers

import (
	"net/http"

	"ix-simulation/internal/analysis"
	"ix-simulation/internal/api/models"
	"ix-simulation/internal/data"
	"ix-simulation/internal/model"
	"ix-simulation/internal/simulation"

	"github.com/gin-gonic/gin"
)

// RankHandler handles ranking-related requests
type RankHandler struct {
	dispatcher *simulation.Dispatcher
	resins     *ResinHandler
	catalog    *data.WaterCatalog
}

// NewRankHandler creates a new rank handler
func NewRankHandler(d *simulation.Dispatcher, resins *ResinHandler, catalog *data.WaterCatalog) *RankHandler {
	if catalog == nil {
		catalog = data.DefaultCatalog()
	}
	return &RankHandler{dispatcher: d, resins: resins, catalog: catalog}
}

// RankResins handles POST /api/v1/rank
func (h *RankHandler) RankResins(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	var water model.WaterAnalysis
	switch {
	case req.Water != nil:
		water = *req.Water
	case req.WaterID != "":
		w, ok := h.catalog.Find(req.WaterID)
		if !ok {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "water "+req.WaterID+" not in catalog")
			return
		}
		water = w
	default:
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "water or water_id is required")
		return
	}

	presets, err := h.resins.Presets()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "NO_RESINS", err.Error())
		return
	}
	if len(presets) == 0 {
		respondError(c, http.StatusNotFound, "NO_RESINS", "no resin presets in "+h.resins.Dir())
		return
	}

	ranked, err := analysis.RankResins(c.Request.Context(), h.dispatcher, water, presets, req.Options, 0)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RANK_ERROR", err.Error())
		return
	}
	if req.Limit > 0 && req.Limit < len(ranked) {
		ranked = ranked[:req.Limit]
	}
	c.JSON(http.StatusOK, models.RankResponse{Water: water.Name, Rankings: ranked})
}
