package extract

import (
	"strings"

	"github.com/thomas-vilte/tickmate/internal/models"
)

// Normalize converts raw records into pipeline tickets: labels default to an
// empty slice, the inclusion flag defaults to true, and records without a
// title are dropped (every surviving ticket has a non-empty title).
func Normalize(records []Record) []models.Ticket {
	tickets := make([]models.Ticket, 0, len(records))
	for _, r := range records {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}

		labels := r.Labels
		if labels == nil {
			labels = []string{}
		}

		tickets = append(tickets, models.Ticket{
			Title:  title,
			Body:   r.Body,
			Labels: labels,
			Create: true,
		})
	}
	return tickets
}
