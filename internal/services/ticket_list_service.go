package services

import (
	"context"
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/thomas-vilte/tickmate/internal/config"
	apperrors "github.com/thomas-vilte/tickmate/internal/errors"
	"github.com/thomas-vilte/tickmate/internal/extract"
	"github.com/thomas-vilte/tickmate/internal/logger"
	"github.com/thomas-vilte/tickmate/internal/models"
)

// QueryClient defines the code-query operations the stages need.
type QueryClient interface {
	Query(ctx context.Context, req models.QueryRequest) (*models.QueryResponse, error)
	EnsureIndexed(ctx context.Context, ref models.RepositoryRef) (bool, error)
	WaitUntilIndexed(ctx context.Context, ref models.RepositoryRef) error
}

// TicketListService is the first generation pass: one prompt in, a list of
// stub tickets out.
type TicketListService struct {
	client QueryClient
	config *config.Config
}

type TicketListOption func(*TicketListService)

func WithTicketListConfig(cfg *config.Config) TicketListOption {
	return func(s *TicketListService) {
		s.config = cfg
	}
}

func NewTicketListService(client QueryClient, opts ...TicketListOption) *TicketListService {
	s := &TicketListService{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate turns one prompt into requestedCount stub tickets. When a mock
// response file is configured (and the session is not production), the
// pre-recorded response replaces the live service entirely, including the
// indexing precondition. A count mismatch against the live service is
// non-fatal: the result carries whatever was extracted plus a warning flag.
func (s *TicketListService) Generate(ctx context.Context, promptContent string, ref models.RepositoryRef, requestedCount int) (*models.TicketListResult, error) {
	log := logger.FromContext(ctx)

	resp, fromMock, err := s.obtainResponse(ctx, promptContent, ref, requestedCount)
	if err != nil {
		return nil, err
	}

	extracted := extract.Tickets(resp.Message)
	if !extracted.Recovered() {
		log.Error("unable to extract tickets from response",
			"raw_message", rawMessageForLog(resp),
			"outcome", string(extracted.Outcome))
		return nil, apperrors.ErrExtractionFailure.
			WithContext("raw_message", rawMessageForLog(resp))
	}

	tickets := extract.Normalize(extracted.Records)

	result := &models.TicketListResult{
		Tickets:        tickets,
		RequestedCount: requestedCount,
		FromMockFile:   fromMock,
		RawResponse:    resp.Raw,
	}

	if len(tickets) != requestedCount && !fromMock {
		log.Warn("ticket count mismatch",
			"requested", requestedCount,
			"extracted", len(tickets))
		result.CountMismatch = true
	}

	log.Info("extracted tickets",
		"count", len(tickets),
		"outcome", string(extracted.Outcome),
		"from_mock", fromMock)

	return result, nil
}

// obtainResponse returns the query response from the mock file when active,
// or from the live service after the indexing precondition.
func (s *TicketListService) obtainResponse(ctx context.Context, promptContent string, ref models.RepositoryRef, requestedCount int) (*models.QueryResponse, bool, error) {
	if resp, ok := s.loadMockResponse(ctx); ok {
		return resp, true, nil
	}

	if _, err := s.client.EnsureIndexed(ctx, ref); err != nil {
		return nil, false, err
	}

	// Terminal on timeout: nothing partial is returned, the caller retries
	// the whole generation later.
	if err := s.client.WaitUntilIndexed(ctx, ref); err != nil {
		return nil, false, err
	}

	prompt, err := BuildTicketListPrompt(promptContent, requestedCount)
	if err != nil {
		return nil, false, apperrors.NewAppError(apperrors.TypeInternal, "failed to build ticket list prompt", err)
	}

	req := models.QueryRequest{
		Messages: []models.QueryMessage{
			{
				ID:      uuid.NewString(),
				Role:    "user",
				Content: prompt,
			},
		},
		Repositories: []models.RepositoryRef{ref},
		Stream:       false,
		Genius:       s.genius(),
	}

	resp, err := s.client.Query(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return resp, false, nil
}

// loadMockResponse reads the pre-recorded query response when one is
// configured for this development session. A missing file falls through to
// the live service; an unreadable one is a configuration error surfaced via
// the returned response being skipped and logged.
func (s *TicketListService) loadMockResponse(ctx context.Context) (*models.QueryResponse, bool) {
	if s.config == nil || s.config.MockFile == "" || s.config.Production {
		return nil, false
	}

	log := logger.FromContext(ctx)

	data, err := os.ReadFile(s.config.MockFile)
	if err != nil {
		log.Warn("mock file not readable, using live service",
			"path", s.config.MockFile,
			"error", err)
		return nil, false
	}

	var resp models.QueryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		log.Warn("mock file is not a valid query response, using live service",
			"path", s.config.MockFile,
			"error", err)
		return nil, false
	}
	resp.Raw = data

	log.Info("using mock response", "path", s.config.MockFile)
	return &resp, true
}

func (s *TicketListService) genius() bool {
	return s.config != nil && s.config.Genius
}

// rawMessageForLog renders the response message compactly for diagnostics.
func rawMessageForLog(resp *models.QueryResponse) string {
	if msg, ok := resp.Message.(string); ok {
		return msg
	}
	data, err := json.Marshal(resp.Message)
	if err != nil {
		return string(resp.Raw)
	}
	return string(data)
}
