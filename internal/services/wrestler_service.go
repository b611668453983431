package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"unicode/utf8"

	"github.com/vytor/ringside/internal/errors"
	"github.com/vytor/ringside/internal/logger"
	"github.com/vytor/ringside/internal/models"
	"github.com/vytor/ringside/internal/rating"
	"github.com/vytor/ringside/internal/record"
	"github.com/vytor/ringside/internal/repository"
)

// WrestlerService handles roster and ranking logic
type WrestlerService interface {
	CreateWrestler(ctx context.Context, name string, initialRating int) (*models.Wrestler, error)
	GetProfile(ctx context.Context, id string) (*models.WrestlerProfile, error)
	Rankings(ctx context.Context, limit, offset int) ([]models.RankingEntry, error)
	RatingHistory(ctx context.Context, id string, limit int) ([]models.RatingHistory, error)
}

type wrestlerService struct {
	wrestlerRepo repository.WrestlerRepository
	statsRepo    repository.StatsRepository
	historyRepo  repository.RatingHistoryRepository
	historyLimit int
}

// NewWrestlerService creates a new WrestlerService
func NewWrestlerService(
	wrestlerRepo repository.WrestlerRepository,
	statsRepo repository.StatsRepository,
	historyRepo repository.RatingHistoryRepository,
	historyLimit int,
) WrestlerService {
	return &wrestlerService{
		wrestlerRepo: wrestlerRepo,
		statsRepo:    statsRepo,
		historyRepo:  historyRepo,
		historyLimit: historyLimit,
	}
}

const maxNameLength = 100

func (s *wrestlerService) CreateWrestler(ctx context.Context, name string, initialRating int) (*models.Wrestler, error) {
	log := logger.FromContext(ctx)
	name = strings.TrimSpace(name)
	log.Debug("creating wrestler: name=%q, rating=%d", name, initialRating)

	if name == "" {
		return nil, errors.NewValidationError("name", "required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, errors.NewValidationError("name", "too long")
	}
	r, err := rating.Effective(initialRating)
	if err != nil {
		return nil, errors.NewValidationError("rating", err.Error())
	}
	if r < rating.MinRating {
		return nil, errors.NewValidationError("rating", "below the rating floor")
	}

	w, err := s.wrestlerRepo.Create(ctx, models.Wrestler{Name: name, Rating: r})
	if err != nil {
		log.Error("failed to create wrestler: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("wrestler created: id=%s, name=%s, rating=%d", w.ID, w.Name, w.Rating)
	return w, nil
}

func (s *wrestlerService) getWrestler(ctx context.Context, id string) (*models.Wrestler, error) {
	w, err := s.wrestlerRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("wrestler", id)
		}
		logger.FromContext(ctx).Error("failed to get wrestler: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if w == nil {
		return nil, errors.NewNotFoundError("wrestler", id)
	}
	return w, nil
}

func (s *wrestlerService) GetProfile(ctx context.Context, id string) (*models.WrestlerProfile, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting wrestler profile: id=%s", id)

	w, err := s.getWrestler(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.statsRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get stats: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &models.WrestlerProfile{
		Wrestler:      *w,
		Stats:         *stats,
		Tier:          rating.TierFromRating(w.Rating),
		Movement:      rating.MovementFromChange(w.LastRatingChange),
		WinPercentage: record.CalculateWinPercentage(stats.Wins, stats.Losses),
	}, nil
}

// Rankings lists wrestlers by rating with their display tier. Positions are
// absolute, so the first entry of a later page continues the count.
func (s *wrestlerService) Rankings(ctx context.Context, limit, offset int) ([]models.RankingEntry, error) {
	log := logger.FromContext(ctx)
	limit = clampLimit(limit, 50)
	if offset < 0 {
		offset = 0
	}
	log.Debug("listing rankings: limit=%d, offset=%d", limit, offset)

	wrestlers, err := s.wrestlerRepo.List(ctx, limit, offset)
	if err != nil {
		log.Error("failed to list wrestlers: %v", err)
		return nil, errors.NewInternalError(err)
	}

	ids := make([]string, len(wrestlers))
	for i, w := range wrestlers {
		ids[i] = w.ID
	}
	stats, err := s.statsRepo.ListByWrestlers(ctx, ids)
	if err != nil {
		log.Error("failed to list stats: %v", err)
		return nil, errors.NewInternalError(err)
	}

	entries := make([]models.RankingEntry, len(wrestlers))
	for i, w := range wrestlers {
		st := stats[w.ID]
		entries[i] = models.RankingEntry{
			Wrestler:      w,
			Position:      offset + i + 1,
			Tier:          rating.TierFromRating(w.Rating),
			Movement:      rating.MovementFromChange(w.LastRatingChange),
			WinPercentage: record.CalculateWinPercentage(st.Wins, st.Losses),
		}
	}
	return entries, nil
}

func (s *wrestlerService) RatingHistory(ctx context.Context, id string, limit int) ([]models.RatingHistory, error) {
	log := logger.FromContext(ctx)
	limit = clampLimit(limit, s.historyLimit)
	log.Debug("listing rating history: id=%s, limit=%d", id, limit)

	if _, err := s.getWrestler(ctx, id); err != nil {
		return nil, err
	}
	history, err := s.historyRepo.ListByWrestler(ctx, id, limit)
	if err != nil {
		log.Error("failed to list rating history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return history, nil
}
