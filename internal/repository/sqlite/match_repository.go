package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/ringside/internal/logger"
	"github.com/vytor/ringside/internal/models"
	"github.com/vytor/ringside/internal/repository"
)

var matchColumns = []string{
	"id", "seq", "event_id", "wrestler1_id", "wrestler2_id", "winner_id", "loser_id", "method",
	"is_for_title", "is_main_event", "is_new_champion", "is_tag_team", "is_draw", "created_at",
}

type matchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new MatchRepository implementation
func NewMatchRepository(db *sql.DB) repository.MatchRepository {
	return &matchRepository{db: db}
}

func scanMatch(row rowScanner) (models.MatchRecord, error) {
	var m models.MatchRecord
	err := row.Scan(&m.ID, &m.Seq, &m.EventID, &m.Wrestler1ID, &m.Wrestler2ID, &m.WinnerID, &m.LoserID, &m.Method,
		&m.IsForTitle, &m.IsMainEvent, &m.IsNewChampion, &m.IsTagTeam, &m.IsDraw, &m.CreatedAt)
	return m, err
}

// ListByParticipant returns the newest records where the given slot column
// holds wrestlerID.
func (r *matchRepository) ListByParticipant(ctx context.Context, slot, wrestlerID string, limit int) ([]models.MatchRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("match_repo")
	if !repository.ValidSlot(slot) {
		return nil, fmt.Errorf("%w: %q", repository.ErrInvalidSlot, slot)
	}
	log.Debug("listing matches: %s=%s, limit=%d", slot, wrestlerID, limit)

	query := sqlBuilder.Select(matchColumns...).
		From("match_records").
		Where(squirrel.Eq{slot: wrestlerID}).
		OrderBy("created_at DESC", "seq DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	return queryMatches(ctx, r.db, query)
}

// ListAll returns the whole log in replay order: event time, then the order
// the records were written.
func (r *matchRepository) ListAll(ctx context.Context) ([]models.MatchRecord, error) {
	logger.FromContext(ctx).WithPrefix("match_repo").Debug("listing full match log")
	return queryMatches(ctx, r.db, matchLogQuery())
}

func matchLogQuery() squirrel.SelectBuilder {
	return sqlBuilder.Select(matchColumns...).
		From("match_records").
		OrderBy("created_at ASC", "seq ASC")
}

// SaveResult persists both participants' new ratings and stats, the match
// record and two rating history rows in one transaction. A participant whose
// stored version no longer equals PreviousVersion aborts the whole write with
// ErrConcurrentUpdate.
func (r *matchRepository) SaveResult(ctx context.Context, result models.MatchResultSet) (*models.MatchRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("match_repo")

	rec := result.Record
	if rec.ID == "" {
		id, err := newID()
		if err != nil {
			return nil, err
		}
		rec.ID = id
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now()
	}
	log.Debug("saving match result: id=%s, %s vs %s", rec.ID, rec.Wrestler1ID, rec.Wrestler2ID)

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if err := sqlBuilder.Select("COALESCE(MAX(seq), 0) + 1").
			From("match_records").
			RunWith(tx).QueryRowContext(ctx).Scan(&rec.Seq); err != nil {
			return fmt.Errorf("next match seq: %w", err)
		}
		if _, err := sqlBuilder.Insert("match_records").
			Columns(matchColumns...).
			Values(rec.ID, rec.Seq, rec.EventID, rec.Wrestler1ID, rec.Wrestler2ID, rec.WinnerID, rec.LoserID, rec.Method,
				rec.IsForTitle, rec.IsMainEvent, rec.IsNewChampion, rec.IsTagTeam, rec.IsDraw, rec.CreatedAt).
			RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("insert match record: %w", err)
		}

		for _, p := range result.Participants {
			if err := updateRating(ctx, tx, p, rec.CreatedAt); err != nil {
				return err
			}
			p.Stats.WrestlerID = p.WrestlerID
			p.Stats.UpdatedAt = rec.CreatedAt
			if err := upsertStats(ctx, tx, p.Stats); err != nil {
				return fmt.Errorf("upsert stats %s: %w", p.WrestlerID, err)
			}
			if err := insertHistory(ctx, tx, models.RatingHistory{
				WrestlerID:   p.WrestlerID,
				MatchID:      rec.ID,
				RatingBefore: p.PreviousRating,
				RatingAfter:  p.NewRating,
				Change:       p.Change,
				CreatedAt:    rec.CreatedAt,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save match result: %v", err)
		return nil, err
	}
	log.Info("match recorded: id=%s", rec.ID)
	return &rec, nil
}

func updateRating(ctx context.Context, tx *sql.Tx, p models.ParticipantUpdate, at time.Time) error {
	res, err := sqlBuilder.Update("wrestlers").
		Set("rating", p.NewRating).
		Set("last_rating_change", p.Change).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": p.WrestlerID, "version": p.PreviousVersion}).
		RunWith(tx).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("update rating %s: %w", p.WrestlerID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: wrestler %s", repository.ErrConcurrentUpdate, p.WrestlerID)
	}
	return nil
}

func queryMatches(ctx context.Context, db queryer, query squirrel.SelectBuilder) ([]models.MatchRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("match_repo")

	q, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		log.Error("failed to list matches: %v", err)
		return nil, err
	}
	defer rows.Close()

	records := []models.MatchRecord{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("failed to scan match row: %v", err)
			return nil, err
		}
		records = append(records, m)
	}
	log.Debug("found %d matches", len(records))
	return records, rows.Err()
}
