// Package remote delegates scoring to an external prediction backend that
// serves POST /predict and GET /health.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/crash-severity-service/internal/domain"
	"github.com/couchcryptid/crash-severity-service/internal/observability"
)

// maxErrorBody bounds how much of a failed response body is kept in the error.
const maxErrorBody = 512

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("scorer API error: status %d: %s", e.StatusCode, e.Body)
}

// Health is the backend's /health payload.
type Health struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// Client implements domain.Scorer against a remote backend. It never retries;
// each call is bounded by the HTTP client timeout and the caller's context.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a remote scorer client. metrics may be nil.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Score posts the scenario to /predict and decodes the prediction.
func (c *Client) Score(ctx context.Context, s domain.CrashScenario) (domain.PredictionResult, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("encode scenario: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var result domain.PredictionResult
	start := time.Now()
	err = c.do(req, &result)
	c.observe(start, err)
	if err != nil {
		c.logger.Warn("remote score failed", "error", err)
		return domain.PredictionResult{}, err
	}
	if !result.Severity.Valid() {
		return domain.PredictionResult{}, fmt.Errorf("scorer returned unknown severity %q", result.Severity)
	}
	return result, nil
}

// Health fetches the backend's /health status.
func (c *Client) Health(ctx context.Context) (Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return Health{}, fmt.Errorf("create request: %w", err)
	}

	var h Health
	if err := c.do(req, &h); err != nil {
		return Health{}, err
	}
	return h, nil
}

// CheckReadiness fails when the backend is unreachable or has no model loaded.
func (c *Client) CheckReadiness(ctx context.Context) error {
	h, err := c.Health(ctx)
	if err != nil {
		return fmt.Errorf("scorer health: %w", err)
	}
	if !h.ModelLoaded {
		return errors.New("scorer reports model not loaded")
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) observe(start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.RemoteAPIDuration.Observe(time.Since(start).Seconds())

	var se *StatusError
	switch {
	case err == nil:
		c.metrics.RemoteRequests.WithLabelValues("success").Inc()
	case errors.As(err, &se):
		c.metrics.RemoteRequests.WithLabelValues("status").Inc()
	default:
		c.metrics.RemoteRequests.WithLabelValues("error").Inc()
	}
}
