package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueMove(sessionID, cardID, listID string) error {
	args := m.Called(sessionID, cardID, listID)
	return args.Error(0)
}
