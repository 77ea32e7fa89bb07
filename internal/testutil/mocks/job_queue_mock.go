package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/eduplay/internal/models"
	"github.com/vytor/eduplay/internal/worker"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueResult(result models.QuizResult) error {
	args := m.Called(result)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueuePurge() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueSessionPurge(purger worker.SessionPurger, ttl time.Duration) error {
	args := m.Called(purger, ttl)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueVisit(privateIP string) error {
	args := m.Called(privateIP)
	return args.Error(0)
}
