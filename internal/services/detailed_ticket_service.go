package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/thomas-vilte/tickmate/internal/config"
	apperrors "github.com/thomas-vilte/tickmate/internal/errors"
	"github.com/thomas-vilte/tickmate/internal/extract"
	"github.com/thomas-vilte/tickmate/internal/logger"
	"github.com/thomas-vilte/tickmate/internal/models"
)

// ExpandProgress is notified as per-stub expansions finish, in completion
// order. Presentation only; the result set is what callers should act on.
type ExpandProgress func(stub models.Ticket, err error)

// DetailedTicketService is the second generation pass: each selected stub is
// expanded into a full ticket with one independent query.
type DetailedTicketService struct {
	client   QueryClient
	config   *config.Config
	progress ExpandProgress
}

type DetailedTicketOption func(*DetailedTicketService)

func WithDetailedConfig(cfg *config.Config) DetailedTicketOption {
	return func(s *DetailedTicketService) {
		s.config = cfg
	}
}

func WithExpandProgress(fn ExpandProgress) DetailedTicketOption {
	return func(s *DetailedTicketService) {
		s.progress = fn
	}
}

func NewDetailedTicketService(client QueryClient, opts ...DetailedTicketOption) *DetailedTicketService {
	s := &DetailedTicketService{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// expandItem correlates one fan-out result back to its source stub. Keyed by
// stub position so out-of-order completion cannot mix results up.
type expandItem struct {
	index  int
	ticket models.Ticket
	err    error
}

// Expand runs one query per selected stub, concurrently, and collects the
// detailed tickets as they complete. One stub's failure never aborts the
// batch: it is reported as a per-item failure instead. Output order follows
// completion, not submission.
func (s *DetailedTicketService) Expand(ctx context.Context, stubs []models.Ticket, bodyFormat string, ref models.RepositoryRef) (*models.ExpandResult, error) {
	log := logger.FromContext(ctx)

	eligible := models.SelectedTickets(stubs)
	if len(eligible) == 0 {
		return &models.ExpandResult{Tickets: []models.Ticket{}}, nil
	}

	log.Info("expanding stub tickets", "count", len(eligible))

	items := make(chan expandItem, len(eligible))
	var wg sync.WaitGroup

	for i, stub := range eligible {
		wg.Add(1)
		go func(index int, stub models.Ticket) {
			defer wg.Done()
			ticket, err := s.expandOne(ctx, stub, bodyFormat, ref)
			items <- expandItem{index: index, ticket: ticket, err: err}
		}(i, stub)
	}

	wg.Wait()
	close(items)

	result := &models.ExpandResult{Tickets: make([]models.Ticket, 0, len(eligible))}
	for item := range items {
		stub := eligible[item.index]
		if s.progress != nil {
			s.progress(stub, item.err)
		}
		if item.err != nil {
			log.Warn("failed to expand stub",
				"title", stub.Title,
				"error", item.err)
			result.Failures = append(result.Failures, models.ExpandFailure{
				Stub: stub,
				Err:  item.err,
			})
			continue
		}
		result.Tickets = append(result.Tickets, item.ticket)
	}

	log.Info("expansion finished",
		"expanded", len(result.Tickets),
		"failed", len(result.Failures))

	return result, nil
}

// expandOne issues the single query for one stub and extracts its detailed
// ticket. The prompt requests exactly one ticket, so only the first
// extracted record is used.
func (s *DetailedTicketService) expandOne(ctx context.Context, stub models.Ticket, bodyFormat string, ref models.RepositoryRef) (models.Ticket, error) {
	prompt, err := BuildDetailedTicketPrompt(stub, bodyFormat)
	if err != nil {
		return models.Ticket{}, apperrors.NewAppError(apperrors.TypeInternal, "failed to build detail prompt", err)
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
		Genius:       s.config != nil && s.config.Genius,
	}

	resp, err := s.client.Query(ctx, req)
	if err != nil {
		return models.Ticket{}, err
	}

	extracted := extract.Tickets(resp.Message)
	tickets := extract.Normalize(extracted.Records)
	if len(tickets) == 0 {
		return models.Ticket{}, apperrors.ErrExtractionFailure.
			WithContext("stub_title", stub.Title).
			WithContext("raw_message", rawMessageForLog(resp))
	}

	return tickets[0], nil
}
