package services

import (
	"context"
	"sync"

	"github.com/vytor/ringside/internal/errors"
	"github.com/vytor/ringside/internal/logger"
	"github.com/vytor/ringside/internal/models"
	"github.com/vytor/ringside/internal/repository"
)

// RecalculationService rebuilds ratings, stats and rating history by
// replaying the match log from each wrestler's initial rating.
type RecalculationService interface {
	RecalculateAll(ctx context.Context) (*models.RecalculationSummary, error)
}

type recalculationService struct {
	leagueRepo repository.LeagueRepository

	// one replay at a time; the store serializes against match writes
	mu sync.Mutex
}

// NewRecalculationService creates a new RecalculationService
func NewRecalculationService(leagueRepo repository.LeagueRepository) RecalculationService {
	return &recalculationService{leagueRepo: leagueRepo}
}

func (s *recalculationService) RecalculateAll(ctx context.Context) (*models.RecalculationSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx)
	log.Info("recalculating league from match log")

	var summary *models.RecalculationSummary
	err := s.leagueRepo.Rebuild(ctx, func(wrestlers []models.Wrestler, matches []models.MatchRecord) (models.LeagueSnapshot, error) {
		snapshot, sum, err := replay(wrestlers, matches)
		if err != nil {
			return models.LeagueSnapshot{}, err
		}
		summary = sum
		return snapshot, nil
	})
	if err != nil {
		log.Error("recalculation failed: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if summary.Skipped > 0 {
		log.Warn("skipped %d matches with unknown participants", summary.Skipped)
	}
	log.Info("recalculation finished: wrestlers=%d, matches=%d", summary.Wrestlers, summary.Matches)
	return summary, nil
}

// replay folds matches, oldest first, over every wrestler reset to its
// initial rating and empty stats.
func replay(wrestlers []models.Wrestler, matches []models.MatchRecord) (models.LeagueSnapshot, *models.RecalculationSummary, error) {
	state := make(map[string]*side, len(wrestlers))
	for _, w := range wrestlers {
		w.Rating = w.InitialRating
		w.LastRatingChange = 0
		state[w.ID] = &side{wrestler: w, stats: models.WrestlerStats{WrestlerID: w.ID}}
	}

	summary := &models.RecalculationSummary{Wrestlers: len(wrestlers)}
	var history []models.RatingHistory
	for _, m := range matches {
		first, ok1 := state[m.Wrestler1ID]
		second, ok2 := state[m.Wrestler2ID]
		if !ok1 || !ok2 {
			summary.Skipped++
			continue
		}
		// A decisive record always has the winner in a slot; normalize so
		// the winner is resolved first.
		if !m.IsDraw && m.WinnerID == m.Wrestler2ID {
			first, second = second, first
		}

		result, err := resolveMatch(*first, *second, outcomeFromRecord(m), m.CreatedAt)
		if err != nil {
			return models.LeagueSnapshot{}, nil, err
		}
		for i, s := range []*side{first, second} {
			p := result.Participants[i]
			s.wrestler.Rating = p.NewRating
			s.wrestler.LastRatingChange = p.Change
			s.stats = p.Stats
			history = append(history, models.RatingHistory{
				WrestlerID:   p.WrestlerID,
				MatchID:      m.ID,
				RatingBefore: p.PreviousRating,
				RatingAfter:  p.NewRating,
				Change:       p.Change,
				CreatedAt:    m.CreatedAt,
			})
		}
		summary.Matches++
	}

	snapshot := models.LeagueSnapshot{History: history}
	for _, w := range wrestlers {
		s := state[w.ID]
		snapshot.Wrestlers = append(snapshot.Wrestlers, s.wrestler)
		snapshot.Stats = append(snapshot.Stats, s.stats)
	}
	return snapshot, summary, nil
}

func outcomeFromRecord(m models.MatchRecord) models.MatchOutcome {
	return models.MatchOutcome{
		EventID:       m.EventID,
		WinnerID:      m.WinnerID,
		LoserID:       m.LoserID,
		Method:        m.Method,
		IsForTitle:    m.IsForTitle,
		IsMainEvent:   m.IsMainEvent,
		IsNewChampion: m.IsNewChampion,
		IsTagTeam:     m.IsTagTeam,
		IsDraw:        m.IsDraw,
		EventDate:     m.CreatedAt,
	}
}
