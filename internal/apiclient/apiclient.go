// Package apiclient is the HTTP client of the scanner service and repository store.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sprawl-dev/sprawl/internal/contract"
	"github.com/sprawl-dev/sprawl/schema"
	"golang.org/x/time/rate"
)

// Errors matched by StatusError.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// StatusError is returned for HTTP responses with status >= 400.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.Code)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// Is matches ErrNotFound and ErrConflict by status code.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	case ErrConflict:
		return e.Code == http.StatusConflict
	}
	return false
}

// Client talks to the scanner service over its JSON API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	results *lru.Cache[int64, schema.ScanResults] // completed scans only
}

var (
	_ contract.ScannerClient    = &Client{} // Compile-time check
	_ contract.RepositoryClient = &Client{} // Compile-time check
)

// Option configures a Client.
type Option func(*Client)

// WithToken attaches an opaque bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRateLimit caps outgoing requests per second. Zero disables the limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, cacheSize int, opts ...Option) (*Client, error) {
	cache, err := lru.New[int64, schema.ScanResults](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create results cache: %w", err)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: contract.DefaultRequestTimeout},
		limiter: rate.NewLimiter(rate.Inf, 0),
		results: cache,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig creates a client from the validated configuration.
func NewFromConfig(cfg *contract.Config) (*Client, error) {
	return New(cfg.APIURL, cfg.CacheSize,
		WithToken(cfg.APIToken),
		WithTimeout(cfg.RequestTimeout),
		WithRateLimit(cfg.RateLimit),
	)
}

// StartScan implements the ScannerClient interface.
func (c *Client) StartScan(ctx context.Context, repositoryID int64) (schema.StartScanResponse, error) {
	var out schema.StartScanResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/scans/%d", repositoryID), struct{}{}, &out)
	return out, err
}

// GetScanStatus implements the ScannerClient interface.
func (c *Client) GetScanStatus(ctx context.Context, scanID int64) (schema.ScanJob, error) {
	var out schema.ScanJob
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/scans/%d", scanID), nil, &out)
	return out, err
}

// GetScanResults implements the ScannerClient interface.
// Results of a completed scan never change, so they are cached by scan id.
// Callers fetch results only after observing the scan as COMPLETED.
func (c *Client) GetScanResults(ctx context.Context, scanID int64) (schema.ScanResults, error) {
	if cached, ok := c.results.Get(scanID); ok {
		return cached, nil
	}
	var out schema.ScanResults
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/scans/%d/results", scanID), nil, &out); err != nil {
		return schema.ScanResults{}, err
	}
	c.results.Add(scanID, out)
	return out, nil
}

// ListGithubRepos implements the RepositoryClient interface.
func (c *Client) ListGithubRepos(ctx context.Context) ([]schema.GithubRepo, error) {
	var out []schema.GithubRepo
	err := c.do(ctx, http.MethodGet, "/github/repos", nil, &out)
	return out, err
}

// ListRepositories implements the RepositoryClient interface.
func (c *Client) ListRepositories(ctx context.Context) ([]schema.Repository, error) {
	var out []schema.Repository
	err := c.do(ctx, http.MethodGet, "/repositories", nil, &out)
	return out, err
}

// GetRepository implements the RepositoryClient interface.
func (c *Client) GetRepository(ctx context.Context, id int64) (schema.RepositoryDetail, error) {
	var out schema.RepositoryDetail
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repositories/%d", id), nil, &out)
	return out, err
}

// AddRepository implements the RepositoryClient interface.
func (c *Client) AddRepository(ctx context.Context, req schema.AddRepositoryRequest) (schema.Repository, error) {
	var out schema.Repository
	err := c.do(ctx, http.MethodPost, "/repositories", req, &out)
	return out, err
}

// DeleteRepository implements the RepositoryClient interface.
func (c *Client) DeleteRepository(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/repositories/%d", id), nil, nil)
}

// do performs one JSON request. A nil body sends no payload and a nil out
// discards the response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	// 1. Respect the client-side rate limit
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	// 2. Build the request
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	// 3. Execute and decode
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return &StatusError{Code: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}

// readErrorMessage extracts a message from an error body, which is either
// JSON with a "message" or "error" field, or plain text.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}
