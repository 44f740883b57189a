package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/trelloflash/internal/models"
)

// MockTrelloClient is a mock implementation of trello.ClientInterface
type MockTrelloClient struct {
	mock.Mock
}

func (m *MockTrelloClient) ValidateToken(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockTrelloClient) Boards(ctx context.Context) ([]models.Board, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Board), args.Error(1)
}

func (m *MockTrelloClient) BoardLists(ctx context.Context, boardID string) ([]models.CardList, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CardList), args.Error(1)
}

func (m *MockTrelloClient) List(ctx context.Context, listID string) (*models.CardList, error) {
	args := m.Called(ctx, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardList), args.Error(1)
}

func (m *MockTrelloClient) MoveCard(ctx context.Context, cardID, listID string) error {
	args := m.Called(ctx, cardID, listID)
	return args.Error(0)
}
