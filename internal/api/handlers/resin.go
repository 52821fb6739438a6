package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"ix-simulation/internal/api/models"
	"ix-simulation/internal/config"
	"ix-simulation/internal/logging"
	"ix-simulation/internal/model"

	"github.com/gin-gonic/gin"
)

// ResinHandler handles resin-preset requests
type ResinHandler struct {
	resinDir string
	log      *logging.Logger
}

// NewResinHandler creates a new resin handler. Relative directories are
// resolved against the working directory.
func NewResinHandler(dir string, log *logging.Logger) *ResinHandler {
	if log == nil {
		log = logging.Nop()
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &ResinHandler{resinDir: dir, log: log.WithComponent("resins")}
}

// Dir returns the preset directory.
func (h *ResinHandler) Dir() string { return h.resinDir }

// ListResins handles GET /api/v1/resins
func (h *ResinHandler) ListResins(c *gin.Context) {
	resins := []models.ResinInfo{}
	presets, err := h.Presets()
	if err != nil {
		// missing preset dir is not fatal for the UI
		h.log.Warn("resin presets unavailable", map[string]any{"dir": h.resinDir, "error": err.Error()})
		c.JSON(http.StatusOK, gin.H{"resins": resins})
		return
	}
	for _, p := range presets {
		resins = append(resins, models.ResinInfo{
			ID:    strings.TrimSuffix(p.File, filepath.Ext(p.File)),
			Name:  p.Resin.Name,
			File:  p.File,
			Specs: p.Resin,
		})
	}
	c.JSON(http.StatusOK, gin.H{"resins": resins})
}

// Presets loads every preset in the directory.
func (h *ResinHandler) Presets() ([]config.ResinPreset, error) {
	return config.LoadResinDir(h.resinDir)
}

// Resolve loads file from the preset directory (when set) and overlays
// override. Only bare file names are accepted.
func (h *ResinHandler) Resolve(file string, override model.ResinBed) (model.ResinBed, error) {
	if file == "" {
		return override.WithDefaults(), nil
	}
	if file != filepath.Base(file) || strings.HasPrefix(file, ".") {
		return model.ResinBed{}, fmt.Errorf("%w: resin_file must be a file name in the preset directory", model.ErrInvalidInput)
	}
	base, err := config.LoadResinFile(filepath.Join(h.resinDir, file))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.ResinBed{}, fmt.Errorf("%w: unknown resin_file %q", model.ErrInvalidInput, file)
		}
		return model.ResinBed{}, err
	}
	return config.MergeResin(base, override).WithDefaults(), nil
}
