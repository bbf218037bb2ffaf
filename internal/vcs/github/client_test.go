package github

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/thomas-vilte/tickmate/internal/errors"
)

func ghResponse(statusCode int, header http.Header) *github.Response {
	if header == nil {
		header = http.Header{}
	}
	return &github.Response{Response: &http.Response{StatusCode: statusCode, Header: header}}
}

func TestParseRepository(t *testing.T) {
	t.Run("Success - owner/name split", func(t *testing.T) {
		owner, name, err := ParseRepository("acme/widgets")

		require.NoError(t, err)
		assert.Equal(t, "acme", owner)
		assert.Equal(t, "widgets", name)
	})

	t.Run("Error - malformed identifiers", func(t *testing.T) {
		for _, bad := range []string{"widgets", "acme/", "/widgets", "a/b/c", ""} {
			_, _, err := ParseRepository(bad)
			assert.Error(t, err, "identifier %q", bad)
		}
	})
}

func TestGitHubClient_CreateIssue(t *testing.T) {
	t.Run("Success - maps the created issue", func(t *testing.T) {
		mockIssues := new(MockIssuesService)
		client := NewGitHubClientWithServices(mockIssues, "acme", "widgets")

		ghIssue := &github.Issue{
			ID:      github.Ptr(int64(101)),
			Number:  github.Ptr(7),
			Title:   github.Ptr("Add retries"),
			Body:    github.Ptr("detailed body"),
			State:   github.Ptr("open"),
			HTMLURL: github.Ptr("https://github.com/acme/widgets/issues/7"),
			User:    &github.User{Login: github.Ptr("octo")},
			Labels:  []*github.Label{{Name: github.Ptr("feature")}},
		}
		mockIssues.On("Create", mock.Anything, "acme", "widgets", mock.MatchedBy(func(req *github.IssueRequest) bool {
			return req.GetTitle() == "Add retries" && len(*req.Labels) == 1
		})).Return(ghIssue, ghResponse(http.StatusCreated, nil), nil)

		issue, err := client.CreateIssue(context.Background(), "Add retries", "detailed body", []string{"feature"})

		require.NoError(t, err)
		assert.Equal(t, 101, issue.ID)
		assert.Equal(t, 7, issue.Number)
		assert.Equal(t, "open", issue.State)
		assert.Equal(t, "octo", issue.Author)
		assert.Equal(t, "https://github.com/acme/widgets/issues/7", issue.URL)
		assert.Equal(t, []string{"feature"}, issue.Labels)
		mockIssues.AssertExpectations(t)
	})

	t.Run("Success - nil labels are sent as an empty list", func(t *testing.T) {
		mockIssues := new(MockIssuesService)
		client := NewGitHubClientWithServices(mockIssues, "acme", "widgets")

		mockIssues.On("Create", mock.Anything, "acme", "widgets", mock.MatchedBy(func(req *github.IssueRequest) bool {
			return req.Labels != nil && len(*req.Labels) == 0
		})).Return(&github.Issue{Number: github.Ptr(1)}, ghResponse(http.StatusCreated, nil), nil)

		_, err := client.CreateIssue(context.Background(), "No labels", "body", nil)

		require.NoError(t, err)
		mockIssues.AssertExpectations(t)
	})

	t.Run("Error - invalid token", func(t *testing.T) {
		mockIssues := new(MockIssuesService)
		client := NewGitHubClientWithServices(mockIssues, "acme", "widgets")

		mockIssues.On("Create", mock.Anything, "acme", "widgets", mock.Anything).
			Return(nil, ghResponse(http.StatusUnauthorized, nil), errors.New("401 Bad credentials"))

		_, err := client.CreateIssue(context.Background(), "T", "b", nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrGitHubTokenInvalid))
	})

	t.Run("Error - repository not found", func(t *testing.T) {
		mockIssues := new(MockIssuesService)
		client := NewGitHubClientWithServices(mockIssues, "acme", "missing")

		mockIssues.On("Create", mock.Anything, "acme", "missing", mock.Anything).
			Return(nil, ghResponse(http.StatusNotFound, nil), errors.New("404 Not Found"))

		_, err := client.CreateIssue(context.Background(), "T", "b", nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrRepositoryNotFound))
	})

	t.Run("Error - validation rejection", func(t *testing.T) {
		mockIssues := new(MockIssuesService)
		client := NewGitHubClientWithServices(mockIssues, "acme", "widgets")

		mockIssues.On("Create", mock.Anything, "acme", "widgets", mock.Anything).
			Return(nil, ghResponse(http.StatusUnprocessableEntity, nil), errors.New("422 Validation Failed"))

		_, err := client.CreateIssue(context.Background(), "", "b", nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrIssueValidation))
	})

	t.Run("Error - forbidden without rate limit means missing permissions", func(t *testing.T) {
		mockIssues := new(MockIssuesService)
		client := NewGitHubClientWithServices(mockIssues, "acme", "widgets")

		mockIssues.On("Create", mock.Anything, "acme", "widgets", mock.Anything).
			Return(nil, ghResponse(http.StatusForbidden, nil), errors.New("403 Resource not accessible"))

		_, err := client.CreateIssue(context.Background(), "T", "b", nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrGitHubInsufficientPerms))
	})

	t.Run("Error - forbidden with retry header means rate limit", func(t *testing.T) {
		mockIssues := new(MockIssuesService)
		client := NewGitHubClientWithServices(mockIssues, "acme", "widgets")

		header := http.Header{}
		header.Set("Retry-After", "60")
		mockIssues.On("Create", mock.Anything, "acme", "widgets", mock.Anything).
			Return(nil, ghResponse(http.StatusForbidden, header), errors.New("403 rate limit exceeded"))

		_, err := client.CreateIssue(context.Background(), "T", "b", nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrGitHubRateLimit))
	})

	t.Run("Error - transport failure without response", func(t *testing.T) {
		mockIssues := new(MockIssuesService)
		client := NewGitHubClientWithServices(mockIssues, "acme", "widgets")

		mockIssues.On("Create", mock.Anything, "acme", "widgets", mock.Anything).
			Return(nil, nil, errors.New("connection refused"))

		_, err := client.CreateIssue(context.Background(), "T", "b", nil)

		require.Error(t, err)
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.TypeVCS, appErr.Type)
	})
}

func TestGitHubClient_GetRepoLabels(t *testing.T) {
	t.Run("Success - follows pagination", func(t *testing.T) {
		mockIssues := new(MockIssuesService)
		client := NewGitHubClientWithServices(mockIssues, "acme", "widgets")

		firstPage := ghResponse(http.StatusOK, nil)
		firstPage.NextPage = 2
		mockIssues.On("ListLabels", mock.Anything, "acme", "widgets", mock.MatchedBy(func(opts *github.ListOptions) bool {
			return opts.Page == 0
		})).Return([]*github.Label{{Name: github.Ptr("bug")}}, firstPage, nil).Once()
		mockIssues.On("ListLabels", mock.Anything, "acme", "widgets", mock.MatchedBy(func(opts *github.ListOptions) bool {
			return opts.Page == 2
		})).Return([]*github.Label{{Name: github.Ptr("feature")}}, ghResponse(http.StatusOK, nil), nil).Once()

		labels, err := client.GetRepoLabels(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"bug", "feature"}, labels)
		mockIssues.AssertExpectations(t)
	})
}
