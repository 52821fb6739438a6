// Package api wires the HTTP routes of the simulation service.
package api

import (
	"net/http"
	"os"
	"strings"

	"ix-simulation/internal/api/handlers"
	"ix-simulation/internal/api/middleware"
	"ix-simulation/internal/data"
	"ix-simulation/internal/logging"
	"ix-simulation/internal/simulation"

	"github.com/gin-gonic/gin"
)

// Deps are the services the routes need.
type Deps struct {
	Dispatcher *simulation.Dispatcher
	Cache      *data.ResultCache
	Catalog    *data.WaterCatalog
	ResinDir   string
	StaticDir  string
	Origins    []string
	Log        *logging.Logger
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = logging.Nop()
	}

	router := gin.New()
	router.Use(middleware.RequestID(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS(d.Origins...))

	resinHandler := handlers.NewResinHandler(d.ResinDir, log)
	simHandler := handlers.NewSimulationHandler(d.Dispatcher, d.Cache, resinHandler)
	waterHandler := handlers.NewWaterHandler(d.Catalog)
	checkHandler := handlers.NewCheckHandler()
	rankHandler := handlers.NewRankHandler(d.Dispatcher, resinHandler, d.Catalog)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "engine": d.Dispatcher.Engine()})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simHandler.Simulate)
		api.POST("/simulate/compare", simHandler.CompareSimulations)
		api.GET("/simulate/:id", simHandler.GetSimulation)

		api.GET("/resins", resinHandler.ListResins)
		api.GET("/waters", waterHandler.ListWaters)
		api.GET("/waters/:name", waterHandler.GetWater)

		api.GET("/checks", checkHandler.ListChecks)
		api.POST("/checks/:name", checkHandler.RunCheck)

		api.POST("/rank", rankHandler.RankResins)
	}

	serveStatic(router, d.StaticDir, log)
	return router
}

// serveStatic serves the web UI from dir when it exists, with index.html as
// the fallback for client-side routes.
func serveStatic(router *gin.Engine, dir string, log *logging.Logger) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); err != nil {
		log.Info("static directory not found, skipping static file serving", map[string]any{"dir": dir})
		return
	}
	router.Static("/assets", dir+"/assets")
	router.StaticFile("/favicon.ico", dir+"/favicon.ico")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
			return
		}
		c.File(dir + "/index.html")
	})
	log.Info("serving static files", map[string]any{"dir": dir})
}
