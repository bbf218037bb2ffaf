package vcs

import (
	"context"

	"github.com/thomas-vilte/tickmate/internal/models"
)

// VCSClient defines the tracker operations the publisher needs.
type VCSClient interface {
	// CreateIssue creates a new issue in the repository.
	CreateIssue(ctx context.Context, title string, body string, labels []string) (*models.Issue, error)
	// GetRepoLabels gets all available labels in the repository.
	GetRepoLabels(ctx context.Context) ([]string, error)
}
