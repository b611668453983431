package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/ringside/internal/logger"
	"github.com/vytor/ringside/internal/models"
	"github.com/vytor/ringside/internal/rating"
	"github.com/vytor/ringside/internal/repository"
)

var wrestlerColumns = []string{"id", "name", "rating", "initial_rating", "last_rating_change", "version", "created_at", "updated_at"}

type wrestlerRepository struct {
	db *sql.DB
}

// NewWrestlerRepository creates a new WrestlerRepository implementation
func NewWrestlerRepository(db *sql.DB) repository.WrestlerRepository {
	return &wrestlerRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWrestler(row rowScanner) (models.Wrestler, error) {
	var w models.Wrestler
	err := row.Scan(&w.ID, &w.Name, &w.Rating, &w.InitialRating, &w.LastRatingChange, &w.Version, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

// Create inserts the wrestler and its zeroed stats row together.
func (r *wrestlerRepository) Create(ctx context.Context, w models.Wrestler) (*models.Wrestler, error) {
	log := logger.FromContext(ctx).WithPrefix("wrestler_repo")

	if w.ID == "" {
		id, err := newID()
		if err != nil {
			return nil, err
		}
		w.ID = id
	}
	if w.Rating == 0 {
		w.Rating = rating.DefaultRating
	}
	w.InitialRating = w.Rating
	ts := now()
	w.CreatedAt, w.UpdatedAt = ts, ts
	log.Debug("creating wrestler: id=%s, name=%s, rating=%d", w.ID, w.Name, w.Rating)

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := sqlBuilder.Insert("wrestlers").
			Columns(wrestlerColumns...).
			Values(w.ID, w.Name, w.Rating, w.InitialRating, w.LastRatingChange, w.Version, w.CreatedAt, w.UpdatedAt).
			RunWith(tx).ExecContext(ctx); err != nil {
			return err
		}
		_, err := sqlBuilder.Insert("wrestler_stats").
			Columns("wrestler_id", "updated_at").
			Values(w.ID, ts).
			RunWith(tx).ExecContext(ctx)
		return err
	})
	if err != nil {
		log.Error("failed to create wrestler: %v", err)
		return nil, err
	}
	return &w, nil
}

func (r *wrestlerRepository) Get(ctx context.Context, id string) (*models.Wrestler, error) {
	log := logger.FromContext(ctx).WithPrefix("wrestler_repo")
	log.Debug("getting wrestler: id=%s", id)

	row := sqlBuilder.Select(wrestlerColumns...).
		From("wrestlers").
		Where(squirrel.Eq{"id": id}).
		RunWith(r.db).QueryRowContext(ctx)
	w, err := scanWrestler(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("wrestler not found: id=%s", id)
		} else {
			log.Error("failed to get wrestler: %v", err)
		}
		return nil, err
	}
	return &w, nil
}

// List returns wrestlers by rating, highest first. Ties break on name.
func (r *wrestlerRepository) List(ctx context.Context, limit, offset int) ([]models.Wrestler, error) {
	log := logger.FromContext(ctx).WithPrefix("wrestler_repo")
	log.Debug("listing wrestlers: limit=%d, offset=%d", limit, offset)

	if limit <= 0 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	query := sqlBuilder.Select(wrestlerColumns...).
		From("wrestlers").
		OrderBy("rating DESC", "name ASC", "id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	return queryWrestlers(ctx, r.db, query)
}

func (r *wrestlerRepository) ListAll(ctx context.Context) ([]models.Wrestler, error) {
	return queryWrestlers(ctx, r.db, rosterQuery())
}

func rosterQuery() squirrel.SelectBuilder {
	return sqlBuilder.Select(wrestlerColumns...).
		From("wrestlers").
		OrderBy("created_at ASC", "id ASC")
}

func (r *wrestlerRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := sqlBuilder.Select("COUNT(*)").From("wrestlers").RunWith(r.db).QueryRowContext(ctx).Scan(&n)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("wrestler_repo").Error("failed to count wrestlers: %v", err)
		return 0, err
	}
	return n, nil
}

func queryWrestlers(ctx context.Context, db queryer, query squirrel.SelectBuilder) ([]models.Wrestler, error) {
	log := logger.FromContext(ctx).WithPrefix("wrestler_repo")

	q, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		log.Error("failed to list wrestlers: %v", err)
		return nil, err
	}
	defer rows.Close()

	wrestlers := []models.Wrestler{}
	for rows.Next() {
		w, err := scanWrestler(rows)
		if err != nil {
			log.Error("failed to scan wrestler row: %v", err)
			return nil, err
		}
		wrestlers = append(wrestlers, w)
	}
	log.Debug("found %d wrestlers", len(wrestlers))
	return wrestlers, rows.Err()
}
