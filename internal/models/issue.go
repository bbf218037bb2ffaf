package models

// Issue is a created issue in the tracker.
type Issue struct {
	ID     int
	Number int
	Title  string
	Body   string
	State  string
	Labels []string
	Author string
	URL    string
}

// PublishResult is the per-ticket outcome of a publish run. Exactly one of
// Issue or Err is set.
type PublishResult struct {
	// TicketTitle is the title of the submitted ticket.
	TicketTitle string

	// Issue is the created issue when the submission succeeded.
	Issue *Issue

	// Err holds the per-ticket failure when the tracker rejected it.
	Err error
}

// Created reports whether the ticket was published successfully.
func (r PublishResult) Created() bool {
	return r.Err == nil && r.Issue != nil
}
