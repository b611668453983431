package repository

import (
	"context"
	"errors"

	"github.com/vytor/ringside/internal/models"
)

// Participant slots of a match record. Every match query runs once per slot.
const (
	SlotWrestler1 = "wrestler1_id"
	SlotWrestler2 = "wrestler2_id"
)

var (
	// ErrConcurrentUpdate is returned when a wrestler was written between the
	// read and the write of a recorded match.
	ErrConcurrentUpdate = errors.New("rating changed concurrently")
	ErrInvalidSlot      = errors.New("invalid participant slot")
)

// ValidSlot reports whether slot names a participant column.
func ValidSlot(slot string) bool {
	return slot == SlotWrestler1 || slot == SlotWrestler2
}

// WrestlerRepository handles wrestler and rating data access
type WrestlerRepository interface {
	Create(ctx context.Context, wrestler models.Wrestler) (*models.Wrestler, error)
	Get(ctx context.Context, id string) (*models.Wrestler, error)
	List(ctx context.Context, limit, offset int) ([]models.Wrestler, error)
	ListAll(ctx context.Context) ([]models.Wrestler, error)
	Count(ctx context.Context) (int, error)
}

// StatsRepository handles per-wrestler record data access.
// Missing rows read as zero-valued stats.
type StatsRepository interface {
	Get(ctx context.Context, wrestlerID string) (*models.WrestlerStats, error)
	ListByWrestlers(ctx context.Context, wrestlerIDs []string) (map[string]models.WrestlerStats, error)
}

// MatchRepository handles the append-only match log
type MatchRepository interface {
	ListByParticipant(ctx context.Context, slot, wrestlerID string, limit int) ([]models.MatchRecord, error)
	ListAll(ctx context.Context) ([]models.MatchRecord, error)
	SaveResult(ctx context.Context, result models.MatchResultSet) (*models.MatchRecord, error)
}

// RatingHistoryRepository handles the rating audit trail
type RatingHistoryRepository interface {
	ListByWrestler(ctx context.Context, wrestlerID string, limit int) ([]models.RatingHistory, error)
}

// ReplayFunc derives the full league state from the roster and the match log
// in replay order.
type ReplayFunc func(wrestlers []models.Wrestler, matches []models.MatchRecord) (models.LeagueSnapshot, error)

// LeagueRepository rebuilds all derived state in one step
type LeagueRepository interface {
	// Rebuild reads the roster and match log, runs replay and writes its
	// snapshot back in a single transaction. Every wrestler's version is
	// bumped, so a match read before the rebuild cannot commit after it.
	Rebuild(ctx context.Context, replay ReplayFunc) error
}
