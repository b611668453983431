package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/ringside/internal/models"
)

// MockWrestlerRepository is a mock implementation of repository.WrestlerRepository
type MockWrestlerRepository struct {
	mock.Mock
}

func (m *MockWrestlerRepository) Create(ctx context.Context, wrestler models.Wrestler) (*models.Wrestler, error) {
	args := m.Called(ctx, wrestler)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wrestler), args.Error(1)
}

func (m *MockWrestlerRepository) Get(ctx context.Context, id string) (*models.Wrestler, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wrestler), args.Error(1)
}

func (m *MockWrestlerRepository) List(ctx context.Context, limit, offset int) ([]models.Wrestler, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Wrestler), args.Error(1)
}

func (m *MockWrestlerRepository) ListAll(ctx context.Context) ([]models.Wrestler, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Wrestler), args.Error(1)
}

func (m *MockWrestlerRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
