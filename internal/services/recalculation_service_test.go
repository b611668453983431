package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/ringside/internal/errors"
	"github.com/vytor/ringside/internal/models"
	"github.com/vytor/ringside/internal/repository"
	"github.com/vytor/ringside/internal/services"
	"github.com/vytor/ringside/internal/testutil/mocks"
)

func TestRecalculateAll_ReplaysFromInitialRating(t *testing.T) {
	league := &mocks.MockLeagueRepository{}
	svc := services.NewRecalculationService(league)

	// Stored ratings are stale; the replay starts from InitialRating.
	roster := []models.Wrestler{
		{ID: "a", Name: "Atlantis", Rating: 1400, InitialRating: 1000},
		{ID: "b", Name: "Blue Panther", Rating: 700, InitialRating: 1000},
	}
	matchLog := []models.MatchRecord{
		{ID: "m1", Wrestler1ID: "a", Wrestler2ID: "b", WinnerID: "b", LoserID: "a", Method: "rendición", CreatedAt: arenaMexico},
		{ID: "m2", Wrestler1ID: "a", Wrestler2ID: "ghost", WinnerID: "a", LoserID: "ghost", CreatedAt: arenaMexico.Add(time.Hour)},
		{ID: "m3", Wrestler1ID: "b", Wrestler2ID: "a", IsDraw: true, CreatedAt: arenaMexico.Add(2 * time.Hour)},
	}

	var snap models.LeagueSnapshot
	league.On("Rebuild", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			var err error
			snap, err = args.Get(1).(repository.ReplayFunc)(roster, matchLog)
			require.NoError(t, err)
		}).
		Return(nil)

	summary, err := svc.RecalculateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.RecalculationSummary{Wrestlers: 2, Matches: 2, Skipped: 1}, summary)

	require.Len(t, snap.Wrestlers, 2)
	a, b := snap.Wrestlers[0], snap.Wrestlers[1]
	// m1: 1000/1000 -> b 1016, a 984. m3 draw: b expected 0.546, 32*(0.5-0.546) = -1.47.
	assert.Equal(t, 1015, b.Rating)
	assert.Equal(t, -1, b.LastRatingChange)
	assert.Equal(t, 985, a.Rating)
	assert.Equal(t, 1, a.LastRatingChange)

	require.Len(t, snap.Stats, 2)
	assert.Equal(t, 1, snap.Stats[0].Losses)
	assert.Equal(t, 1, snap.Stats[0].Draws)
	assert.Equal(t, 0, snap.Stats[0].CurrentStreak)
	assert.Equal(t, 1, snap.Stats[1].Wins)
	assert.Equal(t, 1, snap.Stats[1].SubmissionWins)
	assert.Equal(t, 1, snap.Stats[1].BestStreak)

	require.Len(t, snap.History, 4)
	assert.Equal(t, "b", snap.History[0].WrestlerID)
	assert.Equal(t, 16, snap.History[0].Change)
	assert.Equal(t, "m1", snap.History[0].MatchID)
	assert.Equal(t, "a", snap.History[1].WrestlerID)
	assert.Equal(t, 1000, snap.History[1].RatingBefore)
	assert.Equal(t, "m3", snap.History[3].MatchID)
}

func TestRecalculateAll_StoreFailure(t *testing.T) {
	league := &mocks.MockLeagueRepository{}
	svc := services.NewRecalculationService(league)

	league.On("Rebuild", mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := svc.RecalculateAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInternal, appCode(t, err))
}
