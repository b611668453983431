package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/ringside/internal/models"
	"github.com/vytor/ringside/internal/repository"
)

// MockMatchRepository is a mock implementation of repository.MatchRepository
type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) ListByParticipant(ctx context.Context, slot, wrestlerID string, limit int) ([]models.MatchRecord, error) {
	args := m.Called(ctx, slot, wrestlerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MatchRecord), args.Error(1)
}

func (m *MockMatchRepository) ListAll(ctx context.Context) ([]models.MatchRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MatchRecord), args.Error(1)
}

func (m *MockMatchRepository) SaveResult(ctx context.Context, result models.MatchResultSet) (*models.MatchRecord, error) {
	args := m.Called(ctx, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchRecord), args.Error(1)
}

// MockRatingHistoryRepository is a mock implementation of repository.RatingHistoryRepository
type MockRatingHistoryRepository struct {
	mock.Mock
}

func (m *MockRatingHistoryRepository) ListByWrestler(ctx context.Context, wrestlerID string, limit int) ([]models.RatingHistory, error) {
	args := m.Called(ctx, wrestlerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RatingHistory), args.Error(1)
}

// MockLeagueRepository is a mock implementation of repository.LeagueRepository
type MockLeagueRepository struct {
	mock.Mock
}

func (m *MockLeagueRepository) Rebuild(ctx context.Context, replay repository.ReplayFunc) error {
	args := m.Called(ctx, replay)
	return args.Error(0)
}
