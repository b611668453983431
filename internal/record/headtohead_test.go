package record_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/ringside/internal/models"
	"github.com/vytor/ringside/internal/record"
)

func match(id, w1, w2, winner string, daysAgo int) models.MatchRecord {
	loser := w2
	if winner == w2 {
		loser = w1
	}
	return models.MatchRecord{
		ID:          id,
		Wrestler1ID: w1,
		Wrestler2ID: w2,
		WinnerID:    winner,
		LoserID:     loser,
		Method:      "Pinfall",
		CreatedAt:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo),
	}
}

func TestHeadToHead_TalliesAndDedupes(t *testing.T) {
	// a's wrestler1 slot query and wrestler2 slot query overlap on m2
	slot1 := []models.MatchRecord{
		match("m1", "a", "b", "a", 10),
		match("m2", "a", "b", "b", 5),
		match("x1", "a", "c", "a", 3),
	}
	slot2 := []models.MatchRecord{
		match("m2", "a", "b", "b", 5),
		match("m3", "b", "a", "a", 1),
		match("x2", "d", "a", "d", 2),
	}

	h2h := record.HeadToHead("a", "b", append(slot1, slot2...), 10)

	assert.Equal(t, 2, h2h.Wrestler1Wins)
	assert.Equal(t, 1, h2h.Wrestler2Wins)
	assert.Equal(t, 0, h2h.Draws)
	if assert.Len(t, h2h.Matches, 3) {
		assert.Equal(t, "m3", h2h.Matches[0].ID)
		assert.Equal(t, "m2", h2h.Matches[1].ID)
		assert.Equal(t, "m1", h2h.Matches[2].ID)
	}
}

func TestHeadToHead_Draws(t *testing.T) {
	draw := match("d1", "a", "b", "", 2)
	draw.IsDraw = true
	draw.LoserID = ""

	h2h := record.HeadToHead("a", "b", []models.MatchRecord{draw, match("m1", "b", "a", "b", 1)}, 0)

	assert.Equal(t, 1, h2h.Draws)
	assert.Equal(t, 0, h2h.Wrestler1Wins)
	assert.Equal(t, 1, h2h.Wrestler2Wins)
	assert.Len(t, h2h.Matches, 2)
}

func TestHeadToHead_LimitKeepsTallies(t *testing.T) {
	records := []models.MatchRecord{
		match("m1", "a", "b", "a", 4),
		match("m2", "a", "b", "a", 3),
		match("m3", "a", "b", "b", 2),
		match("m4", "a", "b", "a", 1),
	}

	h2h := record.HeadToHead("a", "b", records, 2)

	assert.Equal(t, 3, h2h.Wrestler1Wins)
	assert.Equal(t, 1, h2h.Wrestler2Wins)
	if assert.Len(t, h2h.Matches, 2) {
		assert.Equal(t, "m4", h2h.Matches[0].ID)
		assert.Equal(t, "m3", h2h.Matches[1].ID)
	}
}

func TestHeadToHead_Empty(t *testing.T) {
	h2h := record.HeadToHead("a", "b", nil, 10)
	assert.NotNil(t, h2h.Matches)
	assert.Empty(t, h2h.Matches)

	same := record.HeadToHead("a", "a", []models.MatchRecord{match("m1", "a", "b", "a", 1)}, 10)
	assert.Empty(t, same.Matches)
}

func TestMergeHistory(t *testing.T) {
	slot1 := []models.MatchRecord{match("m1", "a", "b", "a", 3), match("m2", "a", "c", "c", 1)}
	slot2 := []models.MatchRecord{match("m3", "d", "a", "a", 2), match("m2", "a", "c", "c", 1)}

	merged := record.MergeHistory(0, slot1, slot2)
	if assert.Len(t, merged, 3) {
		assert.Equal(t, []string{"m2", "m3", "m1"}, []string{merged[0].ID, merged[1].ID, merged[2].ID})
	}

	capped := record.MergeHistory(1, slot1, slot2)
	assert.Len(t, capped, 1)
	assert.Equal(t, "m2", capped[0].ID)
}

func TestSortNewestFirst_SameCardUsesWriteOrder(t *testing.T) {
	// same event date; IDs sort opposite to the order the results were written
	opener := match("zz", "a", "b", "a", 0)
	opener.Seq = 7
	mainEvent := match("aa", "c", "a", "c", 0)
	mainEvent.Seq = 8
	earlier := match("mm", "a", "d", "a", 1)
	earlier.Seq = 9

	records := []models.MatchRecord{opener, earlier, mainEvent}
	record.SortNewestFirst(records)
	assert.Equal(t, []string{"aa", "zz", "mm"}, []string{records[0].ID, records[1].ID, records[2].ID})
}
