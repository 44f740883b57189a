package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/trelloflash/internal/models"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) InsertSession(ctx context.Context, result models.SessionResult, answers []models.SessionAnswer) error {
	args := m.Called(ctx, result, answers)
	return args.Error(0)
}

func (m *MockSessionRepository) ListResults(ctx context.Context, filter models.SessionHistoryFilter) ([]models.SessionResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionResult), args.Error(1)
}

func (m *MockSessionRepository) CountResults(ctx context.Context, filter models.SessionHistoryFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockSessionRepository) Result(ctx context.Context, id string) (*models.SessionResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionResult), args.Error(1)
}

func (m *MockSessionRepository) Answers(ctx context.Context, sessionID string) ([]models.SessionAnswer, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionAnswer), args.Error(1)
}
