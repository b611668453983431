package services

import (
	"time"

	"github.com/vytor/ringside/internal/models"
	"github.com/vytor/ringside/internal/rating"
	"github.com/vytor/ringside/internal/record"
)

// side is one participant as read before the match.
type side struct {
	wrestler models.Wrestler
	stats    models.WrestlerStats
}

// resolveMatch runs the rating engine once and the record tracker once per
// participant. first is the winner of a decisive match; for a draw the order
// is only the slot order of the record. The record is stamped with the event
// date, falling back to at, so the log replays in event order. Changes are
// the applied delta: a loser clamped at the floor records what it lost.
func resolveMatch(first, second side, outcome models.MatchOutcome, at time.Time) (models.MatchResultSet, error) {
	opts := rating.Options{IsForTitle: outcome.IsForTitle, IsMainEvent: outcome.IsMainEvent}

	var (
		change rating.Change
		err    error
	)
	firstOutcome, secondOutcome := record.Win, record.Loss
	winnerID, loserID := first.wrestler.ID, second.wrestler.ID
	isNewChampion := outcome.IsNewChampion
	if outcome.IsDraw {
		change, err = rating.CalculateDrawChange(first.wrestler.Rating, second.wrestler.Rating, opts)
		firstOutcome, secondOutcome = record.Draw, record.Draw
		winnerID, loserID = "", ""
		isNewChampion = false
	} else {
		change, err = rating.CalculateRatingChange(first.wrestler.Rating, second.wrestler.Rating, opts)
	}
	if err != nil {
		return models.MatchResultSet{}, err
	}

	// The engine already rejected anything Effective would.
	firstBefore, _ := rating.Effective(first.wrestler.Rating)
	secondBefore, _ := rating.Effective(second.wrestler.Rating)

	date := outcome.EventDate
	if date.IsZero() {
		date = at
	}
	facts := record.MatchFacts{
		Method:        outcome.Method,
		IsMainEvent:   outcome.IsMainEvent,
		IsForTitle:    outcome.IsForTitle,
		IsNewChampion: isNewChampion,
		Date:          date,
	}
	firstFacts, secondFacts := facts, facts
	firstFacts.Opponent = second.wrestler.Name
	secondFacts.Opponent = first.wrestler.Name

	return models.MatchResultSet{
		Record: models.MatchRecord{
			EventID:       outcome.EventID,
			Wrestler1ID:   first.wrestler.ID,
			Wrestler2ID:   second.wrestler.ID,
			WinnerID:      winnerID,
			LoserID:       loserID,
			Method:        outcome.Method,
			IsForTitle:    outcome.IsForTitle,
			IsMainEvent:   outcome.IsMainEvent,
			IsNewChampion: isNewChampion,
			IsTagTeam:     outcome.IsTagTeam,
			IsDraw:        outcome.IsDraw,
			CreatedAt:     date,
		},
		Participants: [2]models.ParticipantUpdate{
			{
				WrestlerID:      first.wrestler.ID,
				PreviousRating:  firstBefore,
				PreviousVersion: first.wrestler.Version,
				NewRating:       change.WinnerNewRating,
				Change:          change.WinnerNewRating - firstBefore,
				Stats:           record.Apply(first.stats, firstOutcome, firstFacts),
			},
			{
				WrestlerID:      second.wrestler.ID,
				PreviousRating:  secondBefore,
				PreviousVersion: second.wrestler.Version,
				NewRating:       change.LoserNewRating,
				Change:          change.LoserNewRating - secondBefore,
				Stats:           record.Apply(second.stats, secondOutcome, secondFacts),
			},
		},
	}, nil
}
