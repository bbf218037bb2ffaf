package models

import (
	"fmt"
	"net/url"
)

// RepositoryRef identifies a unique indexable unit in the code-query service.
type RepositoryRef struct {
	// Remote identifies the hosting provider (e.g. "github", "gitlab").
	Remote string `json:"remote"`

	// Repository is the owner/name identifier (e.g. "thomas-vilte/tickmate").
	Repository string `json:"repository"`

	// Branch is the branch to index and query against.
	Branch string `json:"branch"`
}

// IndexKey returns the canonical identity string used to look up indexing
// status. Order and separators must match the remote service exactly:
// remote:branch:repository, URL-escaped as a single path segment.
func (r RepositoryRef) IndexKey() string {
	return url.QueryEscape(fmt.Sprintf("%s:%s:%s", r.Remote, r.Branch, r.Repository))
}

// String returns a human-readable form for logs and messages.
func (r RepositoryRef) String() string {
	return fmt.Sprintf("%s:%s@%s", r.Remote, r.Repository, r.Branch)
}

// QueryMessage is one chat-style message in a query request.
type QueryMessage struct {
	ID      string `json:"id,omitempty"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// QueryRequest is the payload for one code-query call. Constructed fresh
// per call, never reused.
type QueryRequest struct {
	Messages     []QueryMessage  `json:"messages"`
	Repositories []RepositoryRef `json:"repositories"`
	SessionID    string          `json:"sessionId,omitempty"`
	Stream       bool            `json:"stream"`
	Genius       bool            `json:"genius"`
}

// QuerySource is one source file reference attached to a query response.
type QuerySource struct {
	Repository string `json:"repository,omitempty"`
	Remote     string `json:"remote,omitempty"`
	Branch     string `json:"branch,omitempty"`
	FilePath   string `json:"filepath,omitempty"`
	Summary    string `json:"summary,omitempty"`
}

// QueryResponse is the decoded reply from the code-query service. Message is
// untrusted model output: usually a string, occasionally an already
// structured value. Raw keeps the full payload for diagnostics.
type QueryResponse struct {
	Message interface{}   `json:"message"`
	Sources []QuerySource `json:"sources,omitempty"`
	Raw     []byte        `json:"-"`
}
