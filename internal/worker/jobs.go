package worker

import (
	"context"

	"github.com/vytor/ringside/internal/logger"
	"github.com/vytor/ringside/internal/models"
)

// Recalculator rebuilds derived league state from the match log.
// Declared here so worker does not import services.
type Recalculator interface {
	RecalculateAll(ctx context.Context) (*models.RecalculationSummary, error)
}

// RecalculateJob replays the full match log.
type RecalculateJob struct {
	Recalculator Recalculator
	RequestedBy  string
}

func (j *RecalculateJob) Name() string { return "recalculate_ratings" }

func (j *RecalculateJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("requested_by", j.RequestedBy)
	summary, err := j.Recalculator.RecalculateAll(ctx)
	if err != nil {
		return err
	}
	log.Info("recalculated %d wrestlers from %d matches", summary.Wrestlers, summary.Matches)
	return nil
}
