// Package greptile is a client for the Greptile code-query service: it keeps
// repositories indexed and runs chat-style queries against them.
package greptile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/thomas-vilte/tickmate/internal/errors"
	"github.com/thomas-vilte/tickmate/internal/logger"
	"github.com/thomas-vilte/tickmate/internal/models"
)

const defaultBaseURL = "https://api.greptile.com"

// PollObserver is notified after every indexing status poll. It exists to
// keep presentation (spinners, progress text) out of the polling loop.
type PollObserver func(attempt, maxAttempts int, status IndexStatus)

type Client struct {
	client          *http.Client
	baseURL         string
	apiKey          string
	githubToken     string
	pollInterval    time.Duration
	maxPollAttempts int
	observer        PollObserver
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithPollInterval sets the fixed interval between indexing status polls.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// WithMaxPollAttempts sets how many status polls to make before giving up.
func WithMaxPollAttempts(n int) Option {
	return func(c *Client) { c.maxPollAttempts = n }
}

// WithPollObserver registers a callback invoked after each status poll.
func WithPollObserver(fn PollObserver) Option {
	return func(c *Client) { c.observer = fn }
}

// NewClient creates a Greptile client. The API key authenticates against
// Greptile; the GitHub token lets the service read the source repository.
// Defaults poll every 10 seconds for 90 attempts (15 minutes), which covers
// indexing latency for large repositories.
func NewClient(apiKey, githubToken string, opts ...Option) *Client {
	c := &Client{
		client:          &http.Client{Timeout: 120 * time.Second},
		baseURL:         defaultBaseURL,
		apiKey:          apiKey,
		githubToken:     githubToken,
		pollInterval:    10 * time.Second,
		maxPollAttempts: 90,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query sends one chat-style query. Every repository referenced by the
// request is guaranteed to be indexed first: the service cannot answer
// context-aware queries against an unindexed repository, so the precondition
// is part of the query contract, not an optional caller step. No retry is
// performed; a failed query surfaces immediately.
func (c *Client) Query(ctx context.Context, req models.QueryRequest) (*models.QueryResponse, error) {
	for _, ref := range req.Repositories {
		if _, err := c.EnsureIndexed(ctx, ref); err != nil {
			return nil, err
		}
		if err := c.WaitUntilIndexed(ctx, ref); err != nil {
			return nil, err
		}
	}

	return c.query(ctx, req)
}

// query issues the raw query call without the indexing precondition.
func (c *Client) query(ctx context.Context, req models.QueryRequest) (*models.QueryResponse, error) {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.TypeInternal, "failed to encode query request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/query", bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.TypeInternal, "failed to create query request", err)
	}
	c.setHeaders(httpReq)

	log.Debug("sending greptile query",
		"messages", len(req.Messages),
		"repositories", len(req.Repositories),
		"genius", req.Genius)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.ErrServiceUnavailable.WithError(err).WithContext("operation", "query")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.ErrServiceUnavailable.WithError(err).WithContext("operation", "read query response")
	}

	if err := c.checkStatus(resp.StatusCode, body, "query"); err != nil {
		return nil, err
	}

	var queryResp models.QueryResponse
	if err := json.Unmarshal(body, &queryResp); err != nil {
		return nil, apperrors.ErrServiceRequest.WithError(err).WithContext("operation", "decode query response")
	}
	queryResp.Raw = body

	log.Debug("greptile query completed", "sources", len(queryResp.Sources))
	return &queryResp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-GitHub-Token", c.githubToken)
	req.Header.Set("Content-Type", "application/json")
}

// checkStatus maps non-success responses onto the error taxonomy.
func (c *Client) checkStatus(code int, body []byte, operation string) error {
	if code >= 200 && code < 300 {
		return nil
	}

	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		return apperrors.ErrServiceUnauthorized.
			WithContext("operation", operation).
			WithContext("status", code)
	}

	return apperrors.ErrServiceRequest.
		WithError(fmt.Errorf("status %d: %s", code, truncate(string(body), 300))).
		WithContext("operation", operation).
		WithContext("status", code)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
