package models

// TicketListResult is the outcome of the first generation pass.
type TicketListResult struct {
	// Tickets are the extracted stub tickets, all with Create set.
	Tickets []Ticket

	// RequestedCount is the number of tickets the prompt asked for.
	RequestedCount int

	// CountMismatch is set when extraction yielded a different number of
	// tickets than requested. Non-fatal: Tickets still holds whatever was
	// extracted.
	CountMismatch bool

	// FromMockFile indicates the result was read from a pre-recorded
	// response instead of the live service.
	FromMockFile bool

	// RawResponse keeps the full service payload for diagnostics.
	RawResponse []byte
}

// ExpandFailure records one stub that could not be expanded. The batch
// continues past it.
type ExpandFailure struct {
	// Stub is the source stub ticket.
	Stub Ticket

	// Err is the reason the expansion failed.
	Err error
}

// ExpandResult is the outcome of the second generation pass. Ticket order is
// not guaranteed to match stub submission order.
type ExpandResult struct {
	// Tickets are the successfully expanded detailed tickets.
	Tickets []Ticket

	// Failures are the per-stub failures, if any.
	Failures []ExpandFailure
}
