// Package engine holds the simulation delegates the dispatcher forwards to.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ix-simulation/internal/logging"
	"ix-simulation/internal/model"
)

// Engine runs one simulation request.
type Engine interface {
	Name() string
	Simulate(ctx context.Context, in model.SimulationInput) (*model.SimulationOutput, error)
}

// Config selects and configures an engine.
type Config struct {
	Name string `yaml:"name"`

	// process engine
	Command []string      `yaml:"command"`
	Dir     string        `yaml:"dir"`
	Timeout time.Duration `yaml:"timeout"`

	// remote engine
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

const (
	NameScreening = "screening"
	NameProcess   = "process"
	NameRemote    = "remote"
)

// Names lists the engines New understands.
func Names() []string {
	names := []string{NameScreening, NameProcess, NameRemote}
	sort.Strings(names)
	return names
}

// New builds the engine named by cfg.Name (screening when empty).
func New(cfg Config, log *logging.Logger) (Engine, error) {
	if log == nil {
		log = logging.Nop()
	}
	switch cfg.Name {
	case "", NameScreening:
		return NewScreening(), nil
	case NameProcess:
		p, err := NewProcess(cfg.Command, cfg.Dir, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return p, nil
	case NameRemote:
		r, err := NewRemote(cfg.URL, cfg.APIKey, cfg.Timeout, log.WithComponent("remote-engine"))
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported engine: %q (want one of %v)", cfg.Name, Names())
	}
}

// Func adapts a plain function to Engine.
type Func func(ctx context.Context, in model.SimulationInput) (*model.SimulationOutput, error)

func (f Func) Name() string { return "func" }

func (f Func) Simulate(ctx context.Context, in model.SimulationInput) (*model.SimulationOutput, error) {
	return f(ctx, in)
}
