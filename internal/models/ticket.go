package models

// Ticket is a single work item produced by the generation pipeline.
// The first pass produces stub tickets (short title/body); the second pass
// replaces Body with the expanded, template-formatted content. Both phases
// share this shape.
type Ticket struct {
	// Title is the ticket title. Never empty for tickets that survive
	// extraction.
	Title string `json:"title"`

	// Body is the ticket description. For stubs this is a short summary,
	// for detailed tickets the full template-formatted content.
	Body string `json:"body"`

	// Labels are the suggested labels for the ticket.
	Labels []string `json:"labels"`

	// Create marks the ticket for the next pipeline step. Defaults to true
	// and is toggled by the user during selection.
	Create bool `json:"create_issue"`
}

// SelectedTickets returns only the tickets marked for creation, preserving order.
func SelectedTickets(tickets []Ticket) []Ticket {
	selected := make([]Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Create {
			selected = append(selected, t)
		}
	}
	return selected
}
