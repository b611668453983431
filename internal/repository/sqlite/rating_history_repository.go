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

var historyColumns = []string{"id", "wrestler_id", "match_id", "rating_before", "rating_after", "change", "created_at"}

type ratingHistoryRepository struct {
	db *sql.DB
}

// NewRatingHistoryRepository creates a new RatingHistoryRepository implementation
func NewRatingHistoryRepository(db *sql.DB) repository.RatingHistoryRepository {
	return &ratingHistoryRepository{db: db}
}

func (r *ratingHistoryRepository) ListByWrestler(ctx context.Context, wrestlerID string, limit int) ([]models.RatingHistory, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("listing rating history: wrestler_id=%s, limit=%d", wrestlerID, limit)

	query := sqlBuilder.Select(historyColumns...).
		From("rating_history").
		Where(squirrel.Eq{"wrestler_id": wrestlerID}).
		OrderBy("created_at DESC", "rowid DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	q, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		log.Error("failed to list rating history: %v", err)
		return nil, err
	}
	defer rows.Close()

	history := []models.RatingHistory{}
	for rows.Next() {
		var h models.RatingHistory
		if err := rows.Scan(&h.ID, &h.WrestlerID, &h.MatchID, &h.RatingBefore, &h.RatingAfter, &h.Change, &h.CreatedAt); err != nil {
			log.Error("failed to scan rating history row: %v", err)
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func insertHistory(ctx context.Context, tx *sql.Tx, h models.RatingHistory) error {
	if h.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		h.ID = id
	}
	_, err := sqlBuilder.Insert("rating_history").
		Columns(historyColumns...).
		Values(h.ID, h.WrestlerID, h.MatchID, h.RatingBefore, h.RatingAfter, h.Change, h.CreatedAt).
		RunWith(tx).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert rating history %s: %w", h.WrestlerID, err)
	}
	return nil
}
