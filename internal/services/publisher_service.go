package services

import (
	"context"

	"github.com/thomas-vilte/tickmate/internal/logger"
	"github.com/thomas-vilte/tickmate/internal/models"
	"github.com/thomas-vilte/tickmate/internal/vcs"
)

// provenanceFooter is the fixed trailer appended to every published issue
// body identifying it as tool-generated.
const provenanceFooter = "\n\n---\nAutomated Detailed Issue created by: Batch Ticket Generator + Greptile API"

// PublisherService creates one tracker issue per accepted ticket.
type PublisherService struct {
	vcsClient vcs.VCSClient
}

func NewPublisherService(vcsClient vcs.VCSClient) *PublisherService {
	return &PublisherService{vcsClient: vcsClient}
}

// Publish submits every ticket marked for creation and returns one result
// per submitted ticket, in submission order. A tracker failure on one ticket
// is captured in its result; the remaining submissions continue.
func (s *PublisherService) Publish(ctx context.Context, tickets []models.Ticket) []models.PublishResult {
	log := logger.FromContext(ctx)

	selected := models.SelectedTickets(tickets)
	results := make([]models.PublishResult, 0, len(selected))
	if len(selected) == 0 {
		return results
	}

	known := s.repoLabelSet(ctx)

	for _, ticket := range selected {
		body := ticket.Body + provenanceFooter
		labels := s.validLabels(ctx, ticket, known)

		issue, err := s.vcsClient.CreateIssue(ctx, ticket.Title, body, labels)
		if err != nil {
			log.Warn("issue creation failed",
				"title", ticket.Title,
				"error", err)
			results = append(results, models.PublishResult{
				TicketTitle: ticket.Title,
				Err:         err,
			})
			continue
		}

		results = append(results, models.PublishResult{
			TicketTitle: ticket.Title,
			Issue:       issue,
		})
	}

	created := 0
	for _, r := range results {
		if r.Created() {
			created++
		}
	}
	log.Info("publish finished",
		"submitted", len(results),
		"created", created,
		"failed", len(results)-created)

	return results
}

// repoLabelSet fetches the labels defined in the target repository. A nil
// set means the lookup failed and label validation is skipped.
func (s *PublisherService) repoLabelSet(ctx context.Context) map[string]bool {
	labels, err := s.vcsClient.GetRepoLabels(ctx)
	if err != nil {
		logger.Warn(ctx, "could not list repository labels, skipping label validation",
			"error", err)
		return nil
	}

	known := make(map[string]bool, len(labels))
	for _, label := range labels {
		known[label] = true
	}
	return known
}

// validLabels drops labels that do not exist in the repository so a made-up
// label cannot fail the whole issue creation.
func (s *PublisherService) validLabels(ctx context.Context, ticket models.Ticket, known map[string]bool) []string {
	if known == nil {
		return ticket.Labels
	}

	valid := make([]string, 0, len(ticket.Labels))
	for _, label := range ticket.Labels {
		if !known[label] {
			logger.Warn(ctx, "dropping label not defined in repository",
				"title", ticket.Title,
				"label", label)
			continue
		}
		valid = append(valid, label)
	}
	return valid
}
