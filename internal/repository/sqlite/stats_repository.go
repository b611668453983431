package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/ringside/internal/logger"
	"github.com/vytor/ringside/internal/models"
	"github.com/vytor/ringside/internal/repository"
)

var statsColumns = []string{
	"wrestler_id", "wins", "losses", "draws",
	"pinfall_wins", "submission_wins", "ko_wins", "dq_wins", "other_wins",
	"current_streak", "best_streak", "title_defenses", "titles_won", "main_event_wins",
	"last_match_date", "last_opponent", "last_result", "updated_at",
}

// Every column but the key is overwritten on conflict.
var statsUpsertSuffix = func() string {
	sets := make([]string, 0, len(statsColumns)-1)
	for _, c := range statsColumns[1:] {
		sets = append(sets, c+" = excluded."+c)
	}
	return "ON CONFLICT (wrestler_id) DO UPDATE SET " + strings.Join(sets, ", ")
}()

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func scanStats(row rowScanner) (models.WrestlerStats, error) {
	var (
		s    models.WrestlerStats
		last sql.NullTime
	)
	err := row.Scan(
		&s.WrestlerID, &s.Wins, &s.Losses, &s.Draws,
		&s.PinfallWins, &s.SubmissionWins, &s.KOWins, &s.DQWins, &s.OtherWins,
		&s.CurrentStreak, &s.BestStreak, &s.TitleDefenses, &s.TitlesWon, &s.MainEventWins,
		&last, &s.LastOpponent, &s.LastResult, &s.UpdatedAt,
	)
	s.LastMatchDate = timePtr(last)
	return s, err
}

func statsValues(s models.WrestlerStats) []any {
	return []any{
		s.WrestlerID, s.Wins, s.Losses, s.Draws,
		s.PinfallWins, s.SubmissionWins, s.KOWins, s.DQWins, s.OtherWins,
		s.CurrentStreak, s.BestStreak, s.TitleDefenses, s.TitlesWon, s.MainEventWins,
		nullTime(s.LastMatchDate), s.LastOpponent, s.LastResult, s.UpdatedAt,
	}
}

func (r *statsRepository) Get(ctx context.Context, wrestlerID string) (*models.WrestlerStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("getting stats: wrestler_id=%s", wrestlerID)

	row := sqlBuilder.Select(statsColumns...).
		From("wrestler_stats").
		Where(squirrel.Eq{"wrestler_id": wrestlerID}).
		RunWith(r.db).QueryRowContext(ctx)
	s, err := scanStats(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no stats yet: wrestler_id=%s", wrestlerID)
		return &models.WrestlerStats{WrestlerID: wrestlerID}, nil
	}
	if err != nil {
		log.Error("failed to get stats: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *statsRepository) ListByWrestlers(ctx context.Context, wrestlerIDs []string) (map[string]models.WrestlerStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	out := make(map[string]models.WrestlerStats, len(wrestlerIDs))
	if len(wrestlerIDs) == 0 {
		return out, nil
	}
	log.Debug("listing stats for %d wrestlers", len(wrestlerIDs))

	q, args, err := sqlBuilder.Select(statsColumns...).
		From("wrestler_stats").
		Where(squirrel.Eq{"wrestler_id": wrestlerIDs}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		log.Error("failed to list stats: %v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanStats(rows)
		if err != nil {
			log.Error("failed to scan stats row: %v", err)
			return nil, err
		}
		out[s.WrestlerID] = s
	}
	return out, rows.Err()
}

func upsertStats(ctx context.Context, tx *sql.Tx, s models.WrestlerStats) error {
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now()
	}
	_, err := sqlBuilder.Insert("wrestler_stats").
		Columns(statsColumns...).
		Values(statsValues(s)...).
		Suffix(statsUpsertSuffix).
		RunWith(tx).ExecContext(ctx)
	return err
}
