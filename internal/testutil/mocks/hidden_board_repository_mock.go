package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/trelloflash/internal/models"
)

// MockHiddenBoardRepository is a mock implementation of repository.HiddenBoardRepository
type MockHiddenBoardRepository struct {
	mock.Mock
}

func (m *MockHiddenBoardRepository) List(ctx context.Context) ([]models.HiddenBoard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HiddenBoard), args.Error(1)
}

func (m *MockHiddenBoardRepository) Add(ctx context.Context, boardIDs ...string) error {
	args := m.Called(ctx, boardIDs)
	return args.Error(0)
}

func (m *MockHiddenBoardRepository) Remove(ctx context.Context, boardID string) error {
	args := m.Called(ctx, boardID)
	return args.Error(0)
}

func (m *MockHiddenBoardRepository) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
