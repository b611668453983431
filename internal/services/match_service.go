package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/vytor/ringside/internal/errors"
	"github.com/vytor/ringside/internal/logger"
	"github.com/vytor/ringside/internal/models"
	"github.com/vytor/ringside/internal/rating"
	"github.com/vytor/ringside/internal/record"
	"github.com/vytor/ringside/internal/repository"
	"golang.org/x/sync/errgroup"
)

// MatchService handles recording results and reading the match log
type MatchService interface {
	RecordMatch(ctx context.Context, outcome models.MatchOutcome) (*models.RecordedMatch, error)
	History(ctx context.Context, wrestlerID string, limit int) ([]models.MatchRecord, error)
	HeadToHead(ctx context.Context, wrestlerA, wrestlerB string, limit int) (*models.HeadToHead, error)
}

type matchService struct {
	wrestlerRepo    repository.WrestlerRepository
	statsRepo       repository.StatsRepository
	matchRepo       repository.MatchRepository
	historyLimit    int
	headToHeadLimit int
	now             func() time.Time
}

// NewMatchService creates a new MatchService
func NewMatchService(
	wrestlerRepo repository.WrestlerRepository,
	statsRepo repository.StatsRepository,
	matchRepo repository.MatchRepository,
	historyLimit int,
	headToHeadLimit int,
) MatchService {
	return &matchService{
		wrestlerRepo:    wrestlerRepo,
		statsRepo:       statsRepo,
		matchRepo:       matchRepo,
		historyLimit:    historyLimit,
		headToHeadLimit: headToHeadLimit,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

const maxMethodLength = 200

func (s *matchService) RecordMatch(ctx context.Context, outcome models.MatchOutcome) (*models.RecordedMatch, error) {
	log := logger.FromContext(ctx)
	outcome.WinnerID = strings.TrimSpace(outcome.WinnerID)
	outcome.LoserID = strings.TrimSpace(outcome.LoserID)
	outcome.Method = strings.TrimSpace(outcome.Method)
	log.Debug("recording match: winner=%s, loser=%s, method=%q, title=%t, main_event=%t, draw=%t",
		outcome.WinnerID, outcome.LoserID, outcome.Method, outcome.IsForTitle, outcome.IsMainEvent, outcome.IsDraw)

	if outcome.WinnerID == "" {
		return nil, errors.NewValidationError("winner_id", "required")
	}
	if outcome.LoserID == "" {
		return nil, errors.NewValidationError("loser_id", "required")
	}
	if outcome.WinnerID == outcome.LoserID {
		return nil, errors.NewValidationError("loser_id", "must differ from winner_id")
	}
	if len(outcome.Method) > maxMethodLength {
		return nil, errors.NewValidationError("method", "too long")
	}
	if outcome.IsNewChampion && !outcome.IsForTitle {
		return nil, errors.NewValidationError("is_new_champion", "requires is_for_title")
	}
	if outcome.IsDraw && outcome.IsNewChampion {
		return nil, errors.NewValidationError("is_new_champion", "a draw cannot crown a champion")
	}

	winner, err := s.loadSide(ctx, outcome.WinnerID)
	if err != nil {
		return nil, err
	}
	loser, err := s.loadSide(ctx, outcome.LoserID)
	if err != nil {
		return nil, err
	}

	result, err := resolveMatch(winner, loser, outcome, s.now())
	if err != nil {
		if stderrors.Is(err, rating.ErrInvalidRating) {
			return nil, errors.NewValidationError("rating", err.Error())
		}
		return nil, errors.NewInternalError(err)
	}

	saved, err := s.matchRepo.SaveResult(ctx, result)
	if err != nil {
		if stderrors.Is(err, repository.ErrConcurrentUpdate) {
			log.Warn("match lost a race with another write: %v", err)
			return nil, errors.NewConflictError("ratings changed while recording the match, retry", err)
		}
		log.Error("failed to save match result: %v", err)
		return nil, errors.NewInternalError(err)
	}

	w, l := result.Participants[0], result.Participants[1]
	log.Info("match recorded: id=%s, %s %d->%d (%+d), %s %d->%d (%+d)",
		saved.ID, w.WrestlerID, w.PreviousRating, w.NewRating, w.Change, l.WrestlerID, l.PreviousRating, l.NewRating, l.Change)

	return &models.RecordedMatch{
		Record: *saved,
		Winner: participantState(w),
		Loser:  participantState(l),
	}, nil
}

func participantState(p models.ParticipantUpdate) models.ParticipantState {
	return models.ParticipantState{
		WrestlerID: p.WrestlerID,
		OldRating:  p.PreviousRating,
		NewRating:  p.NewRating,
		Change:     p.Change,
		Stats:      p.Stats,
	}
}

func (s *matchService) loadSide(ctx context.Context, id string) (side, error) {
	log := logger.FromContext(ctx)

	w, err := s.wrestlerRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return side{}, errors.NewNotFoundError("wrestler", id)
		}
		log.Error("failed to load wrestler %s: %v", id, err)
		return side{}, errors.NewInternalError(err)
	}
	if w == nil {
		return side{}, errors.NewNotFoundError("wrestler", id)
	}

	stats, err := s.statsRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to load stats for %s: %v", id, err)
		return side{}, errors.NewInternalError(err)
	}
	return side{wrestler: *w, stats: *stats}, nil
}

// History returns the newest matches of one wrestler. Store failures are
// logged and read as an empty history.
func (s *matchService) History(ctx context.Context, wrestlerID string, limit int) ([]models.MatchRecord, error) {
	log := logger.FromContext(ctx)
	wrestlerID = strings.TrimSpace(wrestlerID)
	if wrestlerID == "" {
		return nil, errors.NewValidationError("wrestler_id", "required")
	}
	limit = clampLimit(limit, s.historyLimit)
	log.Debug("loading match history: wrestler_id=%s, limit=%d", wrestlerID, limit)

	slots, err := s.fetchBothSlots(ctx, wrestlerID, limit)
	if err != nil {
		log.Error("failed to load match history for %s: %v", wrestlerID, err)
		return []models.MatchRecord{}, nil
	}
	return record.MergeHistory(limit, slots...), nil
}

// HeadToHead tallies the shared history of two wrestlers. Store failures are
// logged and read as an empty tally.
func (s *matchService) HeadToHead(ctx context.Context, wrestlerA, wrestlerB string, limit int) (*models.HeadToHead, error) {
	log := logger.FromContext(ctx)
	wrestlerA, wrestlerB = strings.TrimSpace(wrestlerA), strings.TrimSpace(wrestlerB)
	if wrestlerA == "" {
		return nil, errors.NewValidationError("a", "required")
	}
	if wrestlerB == "" {
		return nil, errors.NewValidationError("b", "required")
	}
	if wrestlerA == wrestlerB {
		return nil, errors.NewValidationError("b", "must differ from a")
	}
	limit = clampLimit(limit, s.headToHeadLimit)
	log.Debug("loading head to head: a=%s, b=%s, limit=%d", wrestlerA, wrestlerB, limit)

	// Every shared match is in a's history, so a's two slots are enough.
	// Unbounded so the tally covers the full rivalry.
	slots, err := s.fetchBothSlots(ctx, wrestlerA, 0)
	if err != nil {
		log.Error("failed to load head to head %s vs %s: %v", wrestlerA, wrestlerB, err)
		empty := record.HeadToHead(wrestlerA, wrestlerB, nil, limit)
		return &empty, nil
	}

	var all []models.MatchRecord
	for _, slot := range slots {
		all = append(all, slot...)
	}
	h2h := record.HeadToHead(wrestlerA, wrestlerB, all, limit)
	return &h2h, nil
}

// fetchBothSlots runs the wrestler1 and wrestler2 slot queries concurrently.
func (s *matchService) fetchBothSlots(ctx context.Context, wrestlerID string, limit int) ([][]models.MatchRecord, error) {
	slotNames := []string{repository.SlotWrestler1, repository.SlotWrestler2}
	results := make([][]models.MatchRecord, len(slotNames))

	g, gCtx := errgroup.WithContext(ctx)
	for i, slot := range slotNames {
		i, slot := i, slot
		g.Go(func() error {
			recs, err := s.matchRepo.ListByParticipant(gCtx, slot, wrestlerID, limit)
			if err != nil {
				return err
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > 500 {
		return 500
	}
	return limit
}
