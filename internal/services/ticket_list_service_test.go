package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thomas-vilte/tickmate/internal/config"
	apperrors "github.com/thomas-vilte/tickmate/internal/errors"
	"github.com/thomas-vilte/tickmate/internal/models"
)

func listTestRef() models.RepositoryRef {
	return models.RepositoryRef{Remote: "github", Repository: "acme/widgets", Branch: "main"}
}

func TestTicketListService_Generate(t *testing.T) {
	t.Run("Success - live service with matching count", func(t *testing.T) {
		mockClient := new(MockQueryClient)
		ref := listTestRef()

		mockClient.On("EnsureIndexed", mock.Anything, ref).Return(false, nil)
		mockClient.On("WaitUntilIndexed", mock.Anything, ref).Return(nil)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(req models.QueryRequest) bool {
			return len(req.Messages) == 1 &&
				req.Messages[0].Role == "user" &&
				req.Messages[0].ID != "" &&
				!req.Genius
		})).Return(&models.QueryResponse{
			Message: `{"tickets":[{"title":"A","body":"a","labels":[]},{"title":"B","body":"b","labels":["fix"]}]}`,
		}, nil)

		service := NewTicketListService(mockClient)
		result, err := service.Generate(context.Background(), "improve error handling", ref, 2)

		require.NoError(t, err)
		assert.Len(t, result.Tickets, 2)
		assert.False(t, result.CountMismatch)
		assert.False(t, result.FromMockFile)
		assert.True(t, result.Tickets[0].Create)
		mockClient.AssertExpectations(t)
	})

	t.Run("Success - count mismatch is a warning, not an error", func(t *testing.T) {
		mockClient := new(MockQueryClient)
		ref := listTestRef()

		mockClient.On("EnsureIndexed", mock.Anything, ref).Return(false, nil)
		mockClient.On("WaitUntilIndexed", mock.Anything, ref).Return(nil)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&models.QueryResponse{
			Message: `{"tickets":[{"title":"Only one","body":"","labels":[]}]}`,
		}, nil)

		service := NewTicketListService(mockClient)
		result, err := service.Generate(context.Background(), "a prompt", ref, 3)

		require.NoError(t, err)
		assert.Len(t, result.Tickets, 1)
		assert.True(t, result.CountMismatch)
		assert.Equal(t, 3, result.RequestedCount)
	})

	t.Run("Success - genius flag from config reaches the request", func(t *testing.T) {
		mockClient := new(MockQueryClient)
		ref := listTestRef()

		mockClient.On("EnsureIndexed", mock.Anything, ref).Return(true, nil)
		mockClient.On("WaitUntilIndexed", mock.Anything, ref).Return(nil)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(req models.QueryRequest) bool {
			return req.Genius
		})).Return(&models.QueryResponse{
			Message: `{"tickets":[{"title":"A","body":"","labels":[]}]}`,
		}, nil)

		service := NewTicketListService(mockClient, WithTicketListConfig(&config.Config{Genius: true}))
		_, err := service.Generate(context.Background(), "a prompt", ref, 1)

		require.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Error - unrecoverable response", func(t *testing.T) {
		mockClient := new(MockQueryClient)
		ref := listTestRef()

		mockClient.On("EnsureIndexed", mock.Anything, ref).Return(false, nil)
		mockClient.On("WaitUntilIndexed", mock.Anything, ref).Return(nil)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&models.QueryResponse{
			Message: "I could not generate tickets for that.",
		}, nil)

		service := NewTicketListService(mockClient)
		result, err := service.Generate(context.Background(), "a prompt", ref, 3)

		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, apperrors.ErrExtractionFailure))
	})

	t.Run("Error - indexing timeout propagates", func(t *testing.T) {
		mockClient := new(MockQueryClient)
		ref := listTestRef()

		mockClient.On("EnsureIndexed", mock.Anything, ref).Return(true, nil)
		mockClient.On("WaitUntilIndexed", mock.Anything, ref).Return(apperrors.ErrIndexingTimeout)

		service := NewTicketListService(mockClient)
		_, err := service.Generate(context.Background(), "a prompt", ref, 3)

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrIndexingTimeout))
		mockClient.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
	})
}

func TestTicketListService_MockFile(t *testing.T) {
	t.Run("Success - mock file replaces the live service", func(t *testing.T) {
		dir := t.TempDir()
		mockPath := filepath.Join(dir, "response.json")
		payload := `{"message":"{\"tickets\":[{\"title\":\"Recorded\",\"body\":\"from file\",\"labels\":[]}]}"}`
		require.NoError(t, os.WriteFile(mockPath, []byte(payload), 0o644))

		mockClient := new(MockQueryClient)
		service := NewTicketListService(mockClient, WithTicketListConfig(&config.Config{MockFile: mockPath}))

		result, err := service.Generate(context.Background(), "a prompt", listTestRef(), 3)

		require.NoError(t, err)
		assert.True(t, result.FromMockFile)
		assert.Len(t, result.Tickets, 1)
		assert.Equal(t, "Recorded", result.Tickets[0].Title)
		// Mock data is allowed to disagree with the requested count.
		assert.False(t, result.CountMismatch)
		mockClient.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
		mockClient.AssertNotCalled(t, "EnsureIndexed", mock.Anything, mock.Anything)
	})

	t.Run("Success - missing mock file falls through to live service", func(t *testing.T) {
		mockClient := new(MockQueryClient)
		ref := listTestRef()

		mockClient.On("EnsureIndexed", mock.Anything, ref).Return(false, nil)
		mockClient.On("WaitUntilIndexed", mock.Anything, ref).Return(nil)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&models.QueryResponse{
			Message: `{"tickets":[{"title":"Live","body":"","labels":[]}]}`,
		}, nil)

		cfg := &config.Config{MockFile: filepath.Join(t.TempDir(), "nope.json")}
		service := NewTicketListService(mockClient, WithTicketListConfig(cfg))

		result, err := service.Generate(context.Background(), "a prompt", ref, 1)

		require.NoError(t, err)
		assert.False(t, result.FromMockFile)
		assert.Equal(t, "Live", result.Tickets[0].Title)
	})

	t.Run("Success - mock file ignored in production", func(t *testing.T) {
		dir := t.TempDir()
		mockPath := filepath.Join(dir, "response.json")
		require.NoError(t, os.WriteFile(mockPath, []byte(`{"message":"{\"tickets\":[]}"}`), 0o644))

		mockClient := new(MockQueryClient)
		ref := listTestRef()

		mockClient.On("EnsureIndexed", mock.Anything, ref).Return(false, nil)
		mockClient.On("WaitUntilIndexed", mock.Anything, ref).Return(nil)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&models.QueryResponse{
			Message: `{"tickets":[{"title":"Live","body":"","labels":[]}]}`,
		}, nil)

		cfg := &config.Config{MockFile: mockPath, Production: true}
		service := NewTicketListService(mockClient, WithTicketListConfig(cfg))

		result, err := service.Generate(context.Background(), "a prompt", ref, 1)

		require.NoError(t, err)
		assert.False(t, result.FromMockFile)
		mockClient.AssertExpectations(t)
	})

	t.Run("Success - invalid mock file falls through to live service", func(t *testing.T) {
		dir := t.TempDir()
		mockPath := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(mockPath, []byte("not json at all"), 0o644))

		mockClient := new(MockQueryClient)
		ref := listTestRef()

		mockClient.On("EnsureIndexed", mock.Anything, ref).Return(false, nil)
		mockClient.On("WaitUntilIndexed", mock.Anything, ref).Return(nil)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&models.QueryResponse{
			Message: `{"tickets":[{"title":"Live","body":"","labels":[]}]}`,
		}, nil)

		service := NewTicketListService(mockClient, WithTicketListConfig(&config.Config{MockFile: mockPath}))

		result, err := service.Generate(context.Background(), "a prompt", ref, 1)

		require.NoError(t, err)
		assert.False(t, result.FromMockFile)
	})
}
