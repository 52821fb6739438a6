package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ix-simulation/internal/api"
	"ix-simulation/internal/config"
	"ix-simulation/internal/data"
	"ix-simulation/internal/engine"
	"ix-simulation/internal/logging"
	"ix-simulation/internal/simulation"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := flag.String("config", "", "Path to service YAML config (optional)")
	flag.Parse()

	cfg, err := config.LoadService(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log)
	if err := run(cfg, log); err != nil {
		log.Error("server stopped", err)
		os.Exit(1)
	}
}

func run(cfg config.Service, log *logging.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	e, err := engine.New(cfg.Engine, log)
	if err != nil {
		return err
	}

	catalog := data.DefaultCatalog()
	if cfg.WaterFile != "" {
		catalog, err = data.LoadCatalog(cfg.WaterFile)
		if err != nil {
			return err
		}
	}

	cache := data.NewResultCache(cfg.CacheTTL)
	defer cache.Close()

	router := api.NewRouter(api.Deps{
		Dispatcher: simulation.NewDispatcher(e, log),
		Cache:      cache,
		Catalog:    catalog,
		ResinDir:   cfg.ResinDir,
		StaticDir:  cfg.StaticDir,
		Log:        log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting API server", map[string]any{
			"addr":      srv.Addr,
			"engine":    e.Name(),
			"resin_dir": cfg.ResinDir,
			"env":       cfg.Env,
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
