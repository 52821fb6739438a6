package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ix-simulation/internal/model"
	"ix-simulation/internal/runner"
)

// DefaultProcessTimeout bounds an external simulation when none is configured.
const DefaultProcessTimeout = 10 * time.Minute

// Process hands the request to an external simulation program.
//
// Protocol: the input is written to stdin as one JSON document; the program's
// last non-empty stdout line must be the SimulationOutput as JSON. Earlier
// stdout lines and all of stderr are ignored except for error reporting.
type Process struct {
	command []string
	dir     string
	timeout time.Duration
}

func NewProcess(command []string, dir string, timeout time.Duration) (*Process, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, errors.New("process engine: command is required")
	}
	if timeout <= 0 {
		timeout = DefaultProcessTimeout
	}
	return &Process{command: command, dir: dir, timeout: timeout}, nil
}

func (p *Process) Name() string { return NameProcess }

func (p *Process) Simulate(ctx context.Context, in model.SimulationInput) (*model.SimulationOutput, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("process engine: encode input: %w", err)
	}

	var out, stderr bytes.Buffer
	res, err := runner.Run(ctx, runner.Command{
		Binary:  p.command[0],
		Args:    p.command[1:],
		Dir:     p.dir,
		Stdin:   bytes.NewReader(payload),
		Stderr:  &stderr,
		Timeout: p.timeout,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("process engine: %w", err)
	}
	if res.ExitCode != 0 {
		diag := stderr.String()
		if strings.TrimSpace(diag) == "" {
			diag = out.String()
		}
		return nil, fmt.Errorf("process engine: %s exited with code %d: %s", p.command[0], res.ExitCode, tail(diag, 5))
	}

	last := lastLine(out.String())
	if last == "" {
		return nil, fmt.Errorf("process engine: %s produced no output", p.command[0])
	}
	var result model.SimulationOutput
	if err := json.Unmarshal([]byte(last), &result); err != nil {
		return nil, fmt.Errorf("process engine: decode output: %w", err)
	}
	if result.Engine == "" {
		result.Engine = p.Name()
	}
	return &result, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
