package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v80/github"
	apperrors "github.com/thomas-vilte/tickmate/internal/errors"
	"github.com/thomas-vilte/tickmate/internal/logger"
	"github.com/thomas-vilte/tickmate/internal/models"
	"github.com/thomas-vilte/tickmate/internal/vcs"
	"golang.org/x/oauth2"
)

var _ vcs.VCSClient = (*GitHubClient)(nil)

type IssuesService interface {
	Create(ctx context.Context, owner, repo string, issue *github.IssueRequest) (*github.Issue, *github.Response, error)
	ListLabels(ctx context.Context, owner, repo string, opts *github.ListOptions) ([]*github.Label, *github.Response, error)
}

type GitHubClient struct {
	issuesService IssuesService
	owner         string
	repo          string
	token         string
	httpClient    *http.Client
}

func NewGitHubClient(owner, repo, token string) *GitHubClient {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	return &GitHubClient{
		issuesService: client.Issues,
		owner:         owner,
		repo:          repo,
		token:         token,
		httpClient:    httpClient,
	}
}

func NewGitHubClientWithServices(
	issuesService IssuesService,
	owner string,
	repo string,
) *GitHubClient {
	return &GitHubClient{
		issuesService: issuesService,
		owner:         owner,
		repo:          repo,
		token:         "",
		httpClient:    &http.Client{},
	}
}

// ParseRepository splits an owner/name identifier.
func ParseRepository(repository string) (owner, name string, err error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", apperrors.NewAppError(apperrors.TypeConfiguration,
			fmt.Sprintf("invalid repository identifier %q, expected owner/name", repository), nil)
	}
	return parts[0], parts[1], nil
}

func (ghc *GitHubClient) CreateIssue(ctx context.Context, title string, body string, labels []string) (*models.Issue, error) {
	log := logger.FromContext(ctx)

	log.Info("creating github issue",
		"owner", ghc.owner,
		"repo", ghc.repo,
		"title", title,
		"labels_count", len(labels))

	if labels == nil {
		labels = []string{}
	}

	issueRequest := &github.IssueRequest{
		Title:  github.Ptr(title),
		Body:   github.Ptr(body),
		Labels: &labels,
	}

	ghIssue, resp, err := ghc.issuesService.Create(ctx, ghc.owner, ghc.repo, issueRequest)
	if err != nil {
		log.Error("failed to create github issue",
			"error", err,
			"owner", ghc.owner,
			"repo", ghc.repo)
		return nil, ghc.mapIssueError(resp, err)
	}

	issue := &models.Issue{
		ID:     int(ghIssue.GetID()),
		Number: ghIssue.GetNumber(),
		Title:  ghIssue.GetTitle(),
		Body:   ghIssue.GetBody(),
		State:  ghIssue.GetState(),
		Author: ghIssue.GetUser().GetLogin(),
		URL:    ghIssue.GetHTMLURL(),
		Labels: make([]string, 0),
	}

	for _, label := range ghIssue.Labels {
		if label.Name != nil {
			issue.Labels = append(issue.Labels, label.GetName())
		}
	}

	log.Info("github issue created successfully",
		"issue_number", issue.Number,
		"issue_url", issue.URL)

	return issue, nil
}

func (ghc *GitHubClient) GetRepoLabels(ctx context.Context) ([]string, error) {
	var labels []string
	opts := &github.ListOptions{PerPage: 100}

	for {
		ghLabels, resp, err := ghc.issuesService.ListLabels(ctx, ghc.owner, ghc.repo, opts)
		if err != nil {
			return nil, ghc.mapIssueError(resp, err)
		}

		for _, label := range ghLabels {
			labels = append(labels, label.GetName())
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return labels, nil
}

// mapIssueError classifies a GitHub API failure onto the error taxonomy so
// callers never see raw transport errors.
func (ghc *GitHubClient) mapIssueError(resp *github.Response, err error) error {
	if resp != nil {
		repo := fmt.Sprintf("%s/%s", ghc.owner, ghc.repo)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return apperrors.ErrGitHubTokenInvalid.WithContext("repo", repo)
		case http.StatusForbidden:
			if resp.Header.Get("Retry-After") != "" || strings.Contains(err.Error(), "rate limit") {
				return apperrors.ErrGitHubRateLimit.
					WithContext("retry_after", resp.Header.Get("Retry-After"))
			}
			return apperrors.ErrGitHubInsufficientPerms.WithContext("repo", repo)
		case http.StatusNotFound:
			return apperrors.ErrRepositoryNotFound.WithContext("repo", repo)
		case http.StatusUnprocessableEntity:
			return apperrors.ErrIssueValidation.WithError(err).WithContext("repo", repo)
		case http.StatusTooManyRequests:
			return apperrors.ErrGitHubRateLimit.
				WithContext("retry_after", resp.Header.Get("Retry-After"))
		}
	}
	return apperrors.NewAppError(apperrors.TypeVCS, "github request failed", err)
}
