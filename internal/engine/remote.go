package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ix-simulation/internal/logging"
	"ix-simulation/internal/model"
)

// Remote posts requests to an external simulation service.
type Remote struct {
	BaseURL string
	APIKey  string
	Client  *http.Client

	log *logging.Logger
}

// RemoteError represents a non-2xx answer from the simulation service.
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // for rate limit errors
}

func (e *RemoteError) Error() string {
	return e.Message
}

// NewRemote creates a client for baseURL (e.g. "http://simhost:9000").
func NewRemote(baseURL, apiKey string, timeout time.Duration, log *logging.Logger) (*Remote, error) {
	if baseURL == "" {
		return nil, errors.New("remote engine: url is required")
	}
	if timeout <= 0 {
		timeout = DefaultProcessTimeout
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Remote{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

func (r *Remote) Name() string { return NameRemote }

// Simulate sends POST {BaseURL}/v1/simulate.
func (r *Remote) Simulate(ctx context.Context, in model.SimulationInput) (*model.SimulationOutput, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/v1/simulate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if r.APIKey != "" {
		req.Header.Set("x-api-key", r.APIKey)
	}

	start := time.Now()
	resp, err := r.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		r.log.Error("request failed", err, map[string]any{"duration": duration.String()})
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	r.log.Debug("response", map[string]any{"status": resp.StatusCode, "duration": duration.String()})

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &RemoteError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "simulation service rejected the API key",
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return nil, &RemoteError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return nil, &RemoteError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("simulation service returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var out model.SimulationOutput
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if out.Engine == "" {
		out.Engine = r.Name()
	}
	return &out, nil
}
