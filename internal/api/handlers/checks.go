package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"ix-simulation/internal/api/models"
	"ix-simulation/internal/verify"

	"github.com/gin-gonic/gin"
)

// CheckHandler exposes the verification checks
type CheckHandler struct{}

func NewCheckHandler() *CheckHandler {
	return &CheckHandler{}
}

// ListChecks handles GET /api/v1/checks
func (h *CheckHandler) ListChecks(c *gin.Context) {
	checks := []models.CheckInfo{}
	for _, chk := range verify.Checks() {
		info := models.CheckInfo{Name: chk.Name, Description: chk.Description}
		for _, p := range chk.Params {
			info.Parameters = append(info.Parameters, models.ParameterInfo{Name: p.Name, Unit: p.Unit, Default: p.Default})
		}
		checks = append(checks, info)
	}
	c.JSON(http.StatusOK, gin.H{"checks": checks})
}

// RunCheck handles POST /api/v1/checks/:name
// An empty body runs the check with its defaults.
func (h *CheckHandler) RunCheck(c *gin.Context) {
	name := c.Param("name")
	chk, ok := verify.Lookup(name)
	if !ok {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "unknown check "+name)
		return
	}

	var req models.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	res, err := chk.Run(req.Params)
	if err != nil {
		respondError(c, http.StatusBadRequest, "CHECK_FAILED", err.Error())
		return
	}
	var report bytes.Buffer
	verify.Report(&report, res)
	c.JSON(http.StatusOK, gin.H{"result": res, "report": report.String()})
}
