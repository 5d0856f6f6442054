// Package datamachine implements ports.PipelineStore against a Data Machine
// engine's REST API.
package datamachine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/datamachine-io/structured-analysis/internal/core/domain"
	"github.com/datamachine-io/structured-analysis/internal/core/ports"
)

const defaultTimeout = 30 * time.Second

// ErrHTTPError wraps non-2xx responses from the engine.
var ErrHTTPError = errors.New("engine returned HTTP error")

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client, e.g. for recording transports.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client talks to the engine over HTTP. It implements ports.PipelineStore
// and ports.FlowService.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var (
	_ ports.PipelineStore = (*Client)(nil)
	_ ports.FlowService   = (*Client)(nil)
)

// NewClient creates a client for the engine at baseURL. apiKey may be empty
// for engines with auth disabled.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreatePipeline registers the definition with the engine. A zero pipeline id
// in a successful response means the engine rejected the creation.
func (c *Client) CreatePipeline(ctx context.Context, def domain.PipelineDefinition) (domain.PipelineID, error) {
	var resp createPipelineResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/pipelines", def, &resp); err != nil {
		return 0, err
	}
	return resp.PipelineID, nil
}

func (c *Client) ListPipelines(ctx context.Context) ([]domain.Pipeline, error) {
	var resp listPipelinesResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/pipelines", nil, &resp); err != nil {
		return nil, err
	}

	pipelines := make([]domain.Pipeline, len(resp.Pipelines))
	for i, p := range resp.Pipelines {
		pipelines[i] = domain.Pipeline{ID: p.PipelineID, Name: p.PipelineName}
	}
	return pipelines, nil
}

func (c *Client) ListFlows(ctx context.Context, id domain.PipelineID) ([]domain.Flow, error) {
	var resp listFlowsResponse
	path := fmt.Sprintf("/api/v1/pipelines/%d/flows", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	flows := make([]domain.Flow, len(resp.Flows))
	for i, f := range resp.Flows {
		flows[i] = f.toDomain()
	}
	return flows, nil
}

func (c *Client) Flows() ports.FlowService {
	return c
}

// GetFlow fetches a single flow record. A 404 maps to domain.ErrNotFound.
func (c *Client) GetFlow(ctx context.Context, flowID string) (*domain.Flow, error) {
	var resp flowRecord
	if err := c.do(ctx, http.MethodGet, "/api/v1/flows/"+flowID, nil, &resp); err != nil {
		return nil, err
	}
	flow := resp.toDomain()
	return &flow, nil
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody any) error {
	var body io.Reader
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("engine request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err))
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var engineErr errorResponse
		if err := json.Unmarshal(raw, &engineErr); err == nil && engineErr.Error != "" {
			return fmt.Errorf("%w: %d: %s", ErrHTTPError, resp.StatusCode, engineErr.Error)
		}
		c.logger.Error("engine HTTP error",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status_code", resp.StatusCode))
		return fmt.Errorf("%w: %d", ErrHTTPError, resp.StatusCode)
	}

	if respBody != nil {
		if err := json.Unmarshal(raw, respBody); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
