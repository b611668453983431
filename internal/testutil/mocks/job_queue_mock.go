package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueRecalculation(requestedBy string) error {
	args := m.Called(requestedBy)
	return args.Error(0)
}
