package tickets

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/tickmate/internal/models"
)

type MockTicketListGenerator struct {
	mock.Mock
}

func (m *MockTicketListGenerator) Generate(ctx context.Context, promptContent string, ref models.RepositoryRef, requestedCount int) (*models.TicketListResult, error) {
	args := m.Called(ctx, promptContent, ref, requestedCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketListResult), args.Error(1)
}

type MockTicketExpander struct {
	mock.Mock
}

func (m *MockTicketExpander) Expand(ctx context.Context, stubs []models.Ticket, bodyFormat string, ref models.RepositoryRef) (*models.ExpandResult, error) {
	args := m.Called(ctx, stubs, bodyFormat, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExpandResult), args.Error(1)
}

type MockIssuePublisher struct {
	mock.Mock
}

func (m *MockIssuePublisher) Publish(ctx context.Context, tickets []models.Ticket) []models.PublishResult {
	args := m.Called(ctx, tickets)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.PublishResult)
}

type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) ListTemplates(ctx context.Context) ([]models.TemplateMetadata, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TemplateMetadata), args.Error(1)
}

func (m *MockTemplateService) GetTemplateByName(ctx context.Context, name string) (*models.TicketTemplate, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketTemplate), args.Error(1)
}
