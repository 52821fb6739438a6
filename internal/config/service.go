package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"ix-simulation/internal/engine"
	"ix-simulation/internal/logging"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Service is the API server configuration.
type Service struct {
	Port      string         `yaml:"port"`
	Env       string         `yaml:"env"`
	StaticDir string         `yaml:"static_dir"`
	ResinDir  string         `yaml:"resin_dir"`
	WaterFile string         `yaml:"water_file"`
	CacheTTL  time.Duration  `yaml:"cache_ttl"`
	Engine    engine.Config  `yaml:"engine"`
	Log       logging.Config `yaml:"log"`
}

// DefaultService returns the configuration used when no file is given.
func DefaultService() Service {
	return Service{
		Port:      "8080",
		Env:       "development",
		StaticDir: "./web/dist",
		ResinDir:  "examples/resins",
		CacheTTL:  time.Hour,
		Engine:    engine.Config{Name: engine.NameScreening},
		Log:       logging.Config{Level: "info", Format: "console"},
	}
}

// IsProduction reports whether the service runs with API_ENV=production.
func (s Service) IsProduction() bool { return s.Env == "production" }

// LoadService reads path (optional) over the defaults, then applies the
// environment. A .env file in the working directory is loaded first when
// present; variables already set in the process win over it.
func LoadService(path string) (Service, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Service{}, fmt.Errorf("load .env: %w", err)
	}

	s := DefaultService()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Service{}, err
		}
		if err := yaml.Unmarshal(raw, &s); err != nil {
			return Service{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyEnv(&s, os.Getenv)
	return s, nil
}

func applyEnv(s *Service, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&s.Port, "API_PORT")
	set(&s.Env, "API_ENV")
	set(&s.StaticDir, "STATIC_DIR")
	set(&s.ResinDir, "RESIN_DIR")
	set(&s.WaterFile, "WATER_FILE")
	set(&s.Engine.Name, "IX_ENGINE")
	set(&s.Engine.URL, "IX_ENGINE_URL")
	set(&s.Engine.APIKey, "IX_ENGINE_API_KEY")
	set(&s.Log.Level, "LOG_LEVEL")
	set(&s.Log.Format, "LOG_FORMAT")
}
