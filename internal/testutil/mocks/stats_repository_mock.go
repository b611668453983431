package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/ringside/internal/models"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Get(ctx context.Context, wrestlerID string) (*models.WrestlerStats, error) {
	args := m.Called(ctx, wrestlerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WrestlerStats), args.Error(1)
}

func (m *MockStatsRepository) ListByWrestlers(ctx context.Context, wrestlerIDs []string) (map[string]models.WrestlerStats, error) {
	args := m.Called(ctx, wrestlerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.WrestlerStats), args.Error(1)
}
