package greptile

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	apperrors "github.com/thomas-vilte/tickmate/internal/errors"
	"github.com/thomas-vilte/tickmate/internal/logger"
	"github.com/thomas-vilte/tickmate/internal/models"
)

// IndexStatus is the indexing state of a repository as the service reports it.
type IndexStatus string

const (
	// StatusCompleted means the repository is indexed and queryable.
	StatusCompleted IndexStatus = "completed"

	// StatusPending covers every in-progress state (submitted, cloning,
	// processing).
	StatusPending IndexStatus = "pending"

	// StatusNotFound means the repository was never submitted for indexing.
	StatusNotFound IndexStatus = "not_found"
)

type repositoryStatusResponse struct {
	Repository string `json:"repository"`
	Status     string `json:"status"`
}

type indexRequest struct {
	Remote     string `json:"remote"`
	Repository string `json:"repository"`
	Branch     string `json:"branch"`
	Reload     bool   `json:"reload"`
	Notify     bool   `json:"notify"`
}

// GetStatus looks up the indexing status by the repository's index key. A
// 404 is reported as StatusNotFound, not as an error; every other
// non-success response propagates as a service error.
func (c *Client) GetStatus(ctx context.Context, ref models.RepositoryRef) (IndexStatus, error) {
	url := c.baseURL + "/v2/repositories/" + ref.IndexKey()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", apperrors.NewAppError(apperrors.TypeInternal, "failed to create status request", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", apperrors.ErrServiceUnavailable.WithError(err).WithContext("operation", "repository status")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return StatusNotFound, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.ErrServiceUnavailable.WithError(err).WithContext("operation", "read status response")
	}

	if err := c.checkStatus(resp.StatusCode, body, "repository status"); err != nil {
		return "", err
	}

	var statusResp repositoryStatusResponse
	if err := json.Unmarshal(body, &statusResp); err != nil {
		return "", apperrors.ErrServiceRequest.WithError(err).WithContext("operation", "decode status response")
	}

	if statusResp.Status == string(StatusCompleted) {
		return StatusCompleted, nil
	}
	return StatusPending, nil
}

// RequestIndexing submits an indexing job with a forced reload and a
// completion notification. Safe to call for an already indexed or pending
// repository.
func (c *Client) RequestIndexing(ctx context.Context, ref models.RepositoryRef) error {
	payload, err := json.Marshal(indexRequest{
		Remote:     ref.Remote,
		Repository: ref.Repository,
		Branch:     ref.Branch,
		Reload:     true,
		Notify:     true,
	})
	if err != nil {
		return apperrors.NewAppError(apperrors.TypeInternal, "failed to encode indexing request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/repositories", bytes.NewReader(payload))
	if err != nil {
		return apperrors.NewAppError(apperrors.TypeInternal, "failed to create indexing request", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return apperrors.ErrServiceUnavailable.WithError(err).WithContext("operation", "request indexing")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.ErrServiceUnavailable.WithError(err).WithContext("operation", "read indexing response")
	}

	if err := c.checkStatus(resp.StatusCode, body, "request indexing"); err != nil {
		return apperrors.ErrIndexingRequest.WithError(err).WithContext("repository", ref.String())
	}

	logger.Info(ctx, "indexing requested", "repository", ref.String())
	return nil
}

// EnsureIndexed submits an indexing request when the repository was never
// indexed. Fire-and-forget: it does not wait for completion. Returns true
// when a new indexing job was submitted.
func (c *Client) EnsureIndexed(ctx context.Context, ref models.RepositoryRef) (bool, error) {
	status, err := c.GetStatus(ctx, ref)
	if err != nil {
		return false, err
	}

	if status != StatusNotFound {
		logger.Debug(ctx, "repository already known to the index",
			"repository", ref.String(),
			"status", string(status))
		return false, nil
	}

	if err := c.RequestIndexing(ctx, ref); err != nil {
		return false, err
	}
	return true, nil
}

// WaitUntilIndexed polls the indexing status at a fixed interval until the
// repository is completed or the attempt budget runs out, in which case it
// fails with the indexing-timeout error. Polling is fixed-interval because
// the service's completion webhook is out of process scope. Sleeps are
// context-aware so cancellation is honored mid-interval.
func (c *Client) WaitUntilIndexed(ctx context.Context, ref models.RepositoryRef) error {
	log := logger.FromContext(ctx)

	for attempt := 1; attempt <= c.maxPollAttempts; attempt++ {
		status, err := c.GetStatus(ctx, ref)
		if err != nil {
			return err
		}

		if c.observer != nil {
			c.observer(attempt, c.maxPollAttempts, status)
		}

		if status == StatusCompleted {
			log.Debug("repository indexed",
				"repository", ref.String(),
				"attempts", attempt)
			return nil
		}

		if attempt == c.maxPollAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}

	log.Error("repository indexing timed out",
		"repository", ref.String(),
		"attempts", c.maxPollAttempts,
		"interval", c.pollInterval.String())

	return apperrors.ErrIndexingTimeout.
		WithContext("repository", ref.String()).
		WithContext("attempts", c.maxPollAttempts)
}
