package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ix-simulation/internal/api/models"
	"ix-simulation/internal/config"
	"ix-simulation/internal/data"
	"ix-simulation/internal/model"
	"ix-simulation/internal/simulation"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// compareParallelism bounds concurrent runs of one compare request.
const compareParallelism = 4

// SimulationHandler handles simulation requests
type SimulationHandler struct {
	dispatcher *simulation.Dispatcher
	cache      *data.ResultCache
	resins     *ResinHandler
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(d *simulation.Dispatcher, cache *data.ResultCache, resins *ResinHandler) *SimulationHandler {
	return &SimulationHandler{dispatcher: d, cache: cache, resins: resins}
}

// Simulate handles POST /api/v1/simulate
//
// Both status tags answer 200; the body's status field tells them apart.
func (h *SimulationHandler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	in, err := h.buildInput(req)
	if err != nil {
		respondInputError(c, err)
		return
	}

	out := h.dispatcher.SimulateDirect(c.Request.Context(), in)
	h.cache.Set(out)
	c.JSON(http.StatusOK, out)
}

// GetSimulation handles GET /api/v1/simulate/:id
func (h *SimulationHandler) GetSimulation(c *gin.Context) {
	id := c.Param("id")
	out, ok := h.cache.Get(id)
	if !ok {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "simulation "+id+" not found or expired")
		return
	}
	c.JSON(http.StatusOK, out)
}

// CompareSimulations handles POST /api/v1/simulate/compare
func (h *SimulationHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	inputs := make([]model.SimulationInput, len(req.Variations))
	for i, v := range req.Variations {
		in, err := h.buildInput(applyVariation(req.Base, v))
		if err != nil {
			respondInputError(c, fmt.Errorf("variation %s: %w", v.Name, err))
			return
		}
		inputs[i] = in
	}

	results := make([]models.ComparisonResult, len(inputs))
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(compareParallelism)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out := h.dispatcher.SimulateDirect(ctx, in)
			h.cache.Set(out)
			results[i] = models.ComparisonResult{Name: req.Variations[i].Name, Summary: models.Summarize(out)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) {
			status = http.StatusRequestTimeout
		}
		respondError(c, status, "COMPARE_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, models.CompareResponse{Comparison: results})
}

func (h *SimulationHandler) buildInput(req models.SimulateRequest) (model.SimulationInput, error) {
	resin, err := h.resins.Resolve(req.ResinFile, req.Resin)
	if err != nil {
		return model.SimulationInput{}, err
	}
	in := model.SimulationInput{Water: req.Water, Configuration: resin, Options: req.Options}
	if err := in.Validate(); err != nil {
		return model.SimulationInput{}, err
	}
	return in, nil
}

// applyVariation overlays v on base. The base request is not modified.
func applyVariation(base models.SimulateRequest, v models.Variation) models.SimulateRequest {
	out := base
	if v.Water != nil {
		out.Water = *v.Water
	}
	if v.ResinFile != "" {
		out.ResinFile = v.ResinFile
	}
	out.Resin = config.MergeResin(base.Resin, v.Resin)
	out.Options = base.Options.Clone()
	for k, val := range v.Options {
		out.Options[k] = val
	}
	return out
}

func respondInputError(c *gin.Context, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		resp := models.NewError("INVALID_INPUT", err.Error())
		resp.Error.Details = make(map[string]interface{}, len(verr.Fields))
		for field, rule := range verr.Fields {
			resp.Error.Details[field] = rule
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	if errors.Is(err, model.ErrInvalidInput) {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}
