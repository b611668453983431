package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/ringside/internal/logger"
	"github.com/vytor/ringside/internal/models"
	"github.com/vytor/ringside/internal/repository"
)

type leagueRepository struct {
	db *sql.DB
}

// NewLeagueRepository creates a new LeagueRepository implementation
func NewLeagueRepository(db *sql.DB) repository.LeagueRepository {
	return &leagueRepository{db: db}
}

func (r *leagueRepository) Rebuild(ctx context.Context, replay repository.ReplayFunc) error {
	log := logger.FromContext(ctx).WithPrefix("league_repo")

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		wrestlers, err := queryWrestlers(ctx, tx, rosterQuery())
		if err != nil {
			return fmt.Errorf("read roster: %w", err)
		}
		matches, err := queryMatches(ctx, tx, matchLogQuery())
		if err != nil {
			return fmt.Errorf("read match log: %w", err)
		}

		snapshot, err := replay(wrestlers, matches)
		if err != nil {
			return fmt.Errorf("replay: %w", err)
		}
		log.Info("replacing derived state: wrestlers=%d, stats=%d, history=%d",
			len(snapshot.Wrestlers), len(snapshot.Stats), len(snapshot.History))
		return replaceDerived(ctx, tx, snapshot)
	})
}

// replaceDerived overwrites every rating, every stats row and the full rating
// history with snapshot. The match log itself is not touched.
func replaceDerived(ctx context.Context, tx *sql.Tx, snapshot models.LeagueSnapshot) error {
	if _, err := sqlBuilder.Delete("rating_history").RunWith(tx).ExecContext(ctx); err != nil {
		return fmt.Errorf("clear rating history: %w", err)
	}
	if _, err := sqlBuilder.Delete("wrestler_stats").RunWith(tx).ExecContext(ctx); err != nil {
		return fmt.Errorf("clear stats: %w", err)
	}

	ts := now()
	for _, w := range snapshot.Wrestlers {
		if _, err := sqlBuilder.Update("wrestlers").
			Set("rating", w.Rating).
			Set("last_rating_change", w.LastRatingChange).
			Set("version", squirrel.Expr("version + 1")).
			Set("updated_at", ts).
			Where(squirrel.Eq{"id": w.ID}).
			RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("update wrestler %s: %w", w.ID, err)
		}
	}
	for _, s := range snapshot.Stats {
		if err := upsertStats(ctx, tx, s); err != nil {
			return fmt.Errorf("write stats %s: %w", s.WrestlerID, err)
		}
	}
	for _, h := range snapshot.History {
		if err := insertHistory(ctx, tx, h); err != nil {
			return err
		}
	}
	return nil
}
