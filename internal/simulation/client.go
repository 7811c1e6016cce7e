package simulation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gyxcit/simdecision/internal/model"
)

// Request describes one simulation run. The model travels whole; the
// service treats it as the single source of truth for the run.
type Request struct {
	Model            *model.SystemModel `json:"model"`
	Steps            int                `json:"steps"`
	DT               float64            `json:"dt"`
	ParameterChanges map[string]float64 `json:"parameter_changes,omitempty"`
}

// Service runs simulations. Implementations: HTTPService (remote backend),
// LocalService (in-process engine), FallbackService (remote with local
// fallback).
type Service interface {
	Simulate(ctx context.Context, req Request) (*Result, error)
}

// LocalService runs simulations with the in-process Euler engine.
type LocalService struct{}

// NewLocalService creates a LocalService.
func NewLocalService() *LocalService {
	return &LocalService{}
}

// Simulate runs the engine locally, applying parameter changes first.
func (s *LocalService) Simulate(ctx context.Context, req Request) (*Result, error) {
	if req.Model == nil {
		return nil, fmt.Errorf("simulate: model is required")
	}
	engine := NewEngine(req.Model)
	for path, value := range req.ParameterChanges {
		if err := engine.SetParameter(path, value); err != nil {
			return nil, fmt.Errorf("applying parameter change: %w", err)
		}
	}
	return engine.Run(req.Steps, req.DT), nil
}

// HTTPService calls the external simulation service over HTTP.
type HTTPService struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPService creates an HTTPService for the given base URL.
// If timeout is zero, it defaults to 30 seconds.
func NewHTTPService(baseURL string, timeout time.Duration) *HTTPService {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// simulateResponse is the service wire format.
type simulateResponse struct {
	Success    bool                 `json:"success"`
	TimePoints []float64            `json:"time_points"`
	History    []map[string]float64 `json:"history"`
	FinalState map[string]float64   `json:"final_state"`
	Error      string               `json:"error,omitempty"`
}

// Simulate posts the request to <baseURL>/simulate and decodes the result.
func (s *HTTPService) Simulate(ctx context.Context, req Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/simulate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("simulation service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var sr simulateResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if !sr.Success {
		return nil, fmt.Errorf("simulation service error: %s", sr.Error)
	}

	return &Result{
		TimePoints: sr.TimePoints,
		History:    sr.History,
		FinalState: sr.FinalState,
	}, nil
}

// FallbackService tries a primary service and falls back to a secondary on
// any failure, logging the switch. Used so a failing remote backend
// degrades to a locally computed result instead of halting.
type FallbackService struct {
	primary  Service
	fallback Service
	logger   *slog.Logger
}

// NewFallbackService creates a FallbackService.
func NewFallbackService(primary, fallback Service, logger *slog.Logger) *FallbackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackService{primary: primary, fallback: fallback, logger: logger}
}

// Simulate delegates to the primary service and retries on the fallback
// when it fails.
func (s *FallbackService) Simulate(ctx context.Context, req Request) (*Result, error) {
	result, err := s.primary.Simulate(ctx, req)
	if err == nil {
		return result, nil
	}
	s.logger.Warn("simulation service failed, falling back to local engine", "error", err)
	return s.fallback.Simulate(ctx, req)
}
