package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/tickmate/internal/models"
)

// MockQueryClient is a testify mock of QueryClient.
type MockQueryClient struct {
	mock.Mock
}

func (m *MockQueryClient) Query(ctx context.Context, req models.QueryRequest) (*models.QueryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QueryResponse), args.Error(1)
}

func (m *MockQueryClient) EnsureIndexed(ctx context.Context, ref models.RepositoryRef) (bool, error) {
	args := m.Called(ctx, ref)
	return args.Bool(0), args.Error(1)
}

func (m *MockQueryClient) WaitUntilIndexed(ctx context.Context, ref models.RepositoryRef) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

// MockVCSClient is a testify mock of vcs.VCSClient.
type MockVCSClient struct {
	mock.Mock
}

func (m *MockVCSClient) CreateIssue(ctx context.Context, title string, body string, labels []string) (*models.Issue, error) {
	args := m.Called(ctx, title, body, labels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Issue), args.Error(1)
}

func (m *MockVCSClient) GetRepoLabels(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
