package services_test

import (
	"context"
	"database/sql"
	"fmt"
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

var arenaMexico = time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)

type matchFixture struct {
	wrestlers *mocks.MockWrestlerRepository
	stats     *mocks.MockStatsRepository
	matches   *mocks.MockMatchRepository
	svc       services.MatchService
}

func newMatchFixture() *matchFixture {
	f := &matchFixture{
		wrestlers: &mocks.MockWrestlerRepository{},
		stats:     &mocks.MockStatsRepository{},
		matches:   &mocks.MockMatchRepository{},
	}
	f.svc = services.NewMatchService(f.wrestlers, f.stats, f.matches, 20, 10)
	return f
}

func (f *matchFixture) roster(ws ...models.Wrestler) {
	for _, w := range ws {
		w := w
		f.wrestlers.On("Get", mock.Anything, w.ID).Return(&w, nil)
		f.stats.On("Get", mock.Anything, w.ID).Return(&models.WrestlerStats{WrestlerID: w.ID}, nil)
	}
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := errors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Code
}

func TestRecordMatch_EvenlyMatched(t *testing.T) {
	f := newMatchFixture()
	f.roster(
		models.Wrestler{ID: "mistico", Name: "Místico", Rating: 1000},
		models.Wrestler{ID: "volador", Name: "Volador Jr.", Rating: 1000},
	)

	var saved models.MatchResultSet
	f.matches.On("SaveResult", mock.Anything, mock.AnythingOfType("models.MatchResultSet")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(models.MatchResultSet) }).
		Return(&models.MatchRecord{ID: "m1"}, nil)

	got, err := f.svc.RecordMatch(context.Background(), models.MatchOutcome{
		EventID:   "evt-1",
		WinnerID:  " mistico ",
		LoserID:   "volador",
		Method:    "Pinfall tras La Mística",
		EventDate: arenaMexico,
	})
	require.NoError(t, err)

	assert.Equal(t, "m1", got.Record.ID)
	assert.Equal(t, 1016, got.Winner.NewRating)
	assert.Equal(t, 16, got.Winner.Change)
	assert.Equal(t, 984, got.Loser.NewRating)
	assert.Equal(t, -16, got.Loser.Change)
	assert.Equal(t, 1000, got.Winner.OldRating)

	assert.Equal(t, "mistico", saved.Record.Wrestler1ID)
	assert.Equal(t, "volador", saved.Record.Wrestler2ID)
	assert.Equal(t, "mistico", saved.Record.WinnerID)
	assert.Equal(t, "volador", saved.Record.LoserID)
	assert.Equal(t, arenaMexico, saved.Record.CreatedAt)
	assert.Equal(t, 1000, saved.Participants[0].PreviousRating)

	w := got.Winner.Stats
	assert.Equal(t, 1, w.Wins)
	assert.Equal(t, 1, w.PinfallWins)
	assert.Equal(t, 1, w.CurrentStreak)
	assert.Equal(t, 1, w.BestStreak)
	assert.Equal(t, "Volador Jr.", w.LastOpponent)
	assert.Equal(t, "win", w.LastResult)
	require.NotNil(t, w.LastMatchDate)
	assert.Equal(t, arenaMexico, *w.LastMatchDate)

	l := got.Loser.Stats
	assert.Equal(t, 1, l.Losses)
	assert.Equal(t, -1, l.CurrentStreak)
	assert.Equal(t, "Místico", l.LastOpponent)
	assert.Equal(t, "loss", l.LastResult)
	f.matches.AssertExpectations(t)
}

func TestRecordMatch_Draw(t *testing.T) {
	f := newMatchFixture()
	f.roster(
		models.Wrestler{ID: "a", Name: "Atlantis", Rating: 1200},
		models.Wrestler{ID: "b", Name: "Blue Panther", Rating: 800},
	)
	f.matches.On("SaveResult", mock.Anything, mock.AnythingOfType("models.MatchResultSet")).
		Return(&models.MatchRecord{ID: "m1", IsDraw: true}, nil)

	got, err := f.svc.RecordMatch(context.Background(), models.MatchOutcome{
		WinnerID: "a",
		LoserID:  "b",
		IsDraw:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, -13, got.Winner.Change)
	assert.Equal(t, 13, got.Loser.Change)
	assert.Equal(t, 1, got.Winner.Stats.Draws)
	assert.Equal(t, 0, got.Winner.Stats.Wins)
	assert.Equal(t, 0, got.Loser.Stats.Losses)
	assert.Equal(t, "draw", got.Loser.Stats.LastResult)
	f.matches.AssertCalled(t, "SaveResult", mock.Anything, mock.MatchedBy(func(rs models.MatchResultSet) bool {
		return rs.Record.IsDraw && rs.Record.WinnerID == "" && rs.Record.LoserID == ""
	}))
}

func TestRecordMatch_FloorStoresAppliedChange(t *testing.T) {
	f := newMatchFixture()
	f.roster(
		models.Wrestler{ID: "a", Name: "Atlantis", Rating: 105, Version: 3},
		models.Wrestler{ID: "b", Name: "Blue Panther", Rating: 105, Version: 7},
	)
	f.matches.On("SaveResult", mock.Anything, mock.AnythingOfType("models.MatchResultSet")).
		Return(&models.MatchRecord{ID: "m1"}, nil)

	got, err := f.svc.RecordMatch(context.Background(), models.MatchOutcome{WinnerID: "a", LoserID: "b"})
	require.NoError(t, err)

	assert.Equal(t, 121, got.Winner.NewRating)
	assert.Equal(t, 16, got.Winner.Change)
	assert.Equal(t, 100, got.Loser.NewRating)
	assert.Equal(t, -5, got.Loser.Change, "loser can only drop to the floor")
	f.matches.AssertCalled(t, "SaveResult", mock.Anything, mock.MatchedBy(func(rs models.MatchResultSet) bool {
		l := rs.Participants[1]
		return l.PreviousRating+l.Change == l.NewRating && l.PreviousVersion == 7 &&
			rs.Participants[0].PreviousVersion == 3
	}))
}

func TestRecordMatch_Validation(t *testing.T) {
	tests := []struct {
		name    string
		outcome models.MatchOutcome
	}{
		{"missing winner", models.MatchOutcome{LoserID: "b"}},
		{"missing loser", models.MatchOutcome{WinnerID: "a", LoserID: "   "}},
		{"same wrestler", models.MatchOutcome{WinnerID: "a", LoserID: "a"}},
		{"champion without title", models.MatchOutcome{WinnerID: "a", LoserID: "b", IsNewChampion: true}},
		{"draw crowning a champion", models.MatchOutcome{WinnerID: "a", LoserID: "b", IsForTitle: true, IsNewChampion: true, IsDraw: true}},
		{"method too long", models.MatchOutcome{WinnerID: "a", LoserID: "b", Method: fmt.Sprintf("%0201d", 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMatchFixture()
			_, err := f.svc.RecordMatch(context.Background(), tt.outcome)
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))
			f.wrestlers.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
			f.matches.AssertNotCalled(t, "SaveResult", mock.Anything, mock.Anything)
		})
	}
}

func TestRecordMatch_UnknownWrestler(t *testing.T) {
	f := newMatchFixture()
	f.roster(models.Wrestler{ID: "a", Name: "Atlantis", Rating: 1000})
	f.wrestlers.On("Get", mock.Anything, "ghost").Return(nil, sql.ErrNoRows)

	_, err := f.svc.RecordMatch(context.Background(), models.MatchOutcome{WinnerID: "a", LoserID: "ghost"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotFound, appCode(t, err))
	f.matches.AssertNotCalled(t, "SaveResult", mock.Anything, mock.Anything)
}

func TestRecordMatch_ConcurrentUpdate(t *testing.T) {
	f := newMatchFixture()
	f.roster(
		models.Wrestler{ID: "a", Name: "Atlantis", Rating: 1000},
		models.Wrestler{ID: "b", Name: "Blue Panther", Rating: 1000},
	)
	f.matches.On("SaveResult", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("wrestler a: %w", repository.ErrConcurrentUpdate))

	_, err := f.svc.RecordMatch(context.Background(), models.MatchOutcome{WinnerID: "a", LoserID: "b"})
	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeConflict, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestHistory_MergesSlots(t *testing.T) {
	f := newMatchFixture()
	older := models.MatchRecord{ID: "m1", Wrestler1ID: "a", Wrestler2ID: "b", CreatedAt: arenaMexico}
	newer := models.MatchRecord{ID: "m2", Wrestler1ID: "c", Wrestler2ID: "a", CreatedAt: arenaMexico.Add(24 * time.Hour)}
	f.matches.On("ListByParticipant", mock.Anything, repository.SlotWrestler1, "a", 20).Return([]models.MatchRecord{older}, nil)
	f.matches.On("ListByParticipant", mock.Anything, repository.SlotWrestler2, "a", 20).Return([]models.MatchRecord{newer}, nil)

	got, err := f.svc.History(context.Background(), "a", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].ID)
	assert.Equal(t, "m1", got[1].ID)
}

func TestHistory_StoreFailureReadsEmpty(t *testing.T) {
	f := newMatchFixture()
	f.matches.On("ListByParticipant", mock.Anything, repository.SlotWrestler1, "a", 5).Return(nil, assert.AnError)
	f.matches.On("ListByParticipant", mock.Anything, repository.SlotWrestler2, "a", 5).Return([]models.MatchRecord{}, nil).Maybe()

	got, err := f.svc.History(context.Background(), "a", 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHeadToHead(t *testing.T) {
	f := newMatchFixture()
	m1 := models.MatchRecord{ID: "m1", Wrestler1ID: "a", Wrestler2ID: "b", WinnerID: "a", LoserID: "b", CreatedAt: arenaMexico}
	m2 := models.MatchRecord{ID: "m2", Wrestler1ID: "a", Wrestler2ID: "c", WinnerID: "a", LoserID: "c", CreatedAt: arenaMexico.Add(time.Hour)}
	m3 := models.MatchRecord{ID: "m3", Wrestler1ID: "b", Wrestler2ID: "a", WinnerID: "b", LoserID: "a", CreatedAt: arenaMexico.Add(2 * time.Hour)}
	m4 := models.MatchRecord{ID: "m4", Wrestler1ID: "b", Wrestler2ID: "a", IsDraw: true, CreatedAt: arenaMexico.Add(3 * time.Hour)}
	f.matches.On("ListByParticipant", mock.Anything, repository.SlotWrestler1, "a", 0).Return([]models.MatchRecord{m1, m2}, nil)
	f.matches.On("ListByParticipant", mock.Anything, repository.SlotWrestler2, "a", 0).Return([]models.MatchRecord{m3, m4, m1}, nil)

	got, err := f.svc.HeadToHead(context.Background(), "a", "b", 2)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Wrestler1ID)
	assert.Equal(t, "b", got.Wrestler2ID)
	assert.Equal(t, 1, got.Wrestler1Wins)
	assert.Equal(t, 1, got.Wrestler2Wins)
	assert.Equal(t, 1, got.Draws)
	require.Len(t, got.Matches, 2)
	assert.Equal(t, "m4", got.Matches[0].ID)
	assert.Equal(t, "m3", got.Matches[1].ID)
}

func TestHeadToHead_StoreFailureReadsEmpty(t *testing.T) {
	f := newMatchFixture()
	f.matches.On("ListByParticipant", mock.Anything, repository.SlotWrestler1, "a", 0).Return(nil, assert.AnError).Maybe()
	f.matches.On("ListByParticipant", mock.Anything, repository.SlotWrestler2, "a", 0).Return(nil, assert.AnError).Maybe()

	got, err := f.svc.HeadToHead(context.Background(), "a", "b", 0)
	require.NoError(t, err)
	assert.Zero(t, got.Wrestler1Wins)
	assert.Zero(t, got.Wrestler2Wins)
	assert.NotNil(t, got.Matches)
	assert.Empty(t, got.Matches)
}

func TestHeadToHead_Validation(t *testing.T) {
	f := newMatchFixture()

	_, err := f.svc.HeadToHead(context.Background(), "", "b", 0)
	assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))

	_, err = f.svc.HeadToHead(context.Background(), "a", "a", 0)
	assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))
}

func TestRecordMatch_UnratedSideStartsFromDefault(t *testing.T) {
	f := newMatchFixture()
	f.roster(
		models.Wrestler{ID: "w1", Name: "Místico", Rating: 0, Version: 1},
		models.Wrestler{ID: "w2", Name: "Volador Jr.", Rating: 1000, Version: 1},
	)
	f.matches.On("SaveResult", mock.Anything, mock.Anything).Return(&models.MatchRecord{ID: "m1"}, nil)

	got, err := f.svc.RecordMatch(context.Background(), models.MatchOutcome{WinnerID: "w1", LoserID: "w2"})
	require.NoError(t, err)
	assert.Equal(t, 1000, got.Winner.OldRating)
	assert.Equal(t, 1016, got.Winner.NewRating)
	assert.Equal(t, 16, got.Winner.Change)
}
