package models

import "time"

// Wrestler is a roster entry. Version is bumped by every write that changes
// rating or stats and guards read-modify-write cycles.
type Wrestler struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Rating           int       `json:"rating"`
	InitialRating    int       `json:"initial_rating"`
	LastRatingChange int       `json:"last_rating_change"`
	Version          int       `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// WrestlerStats is the cumulative record of one wrestler. Rating lives on
// Wrestler, not here.
type WrestlerStats struct {
	WrestlerID     string     `json:"wrestler_id"`
	Wins           int        `json:"wins"`
	Losses         int        `json:"losses"`
	Draws          int        `json:"draws"`
	PinfallWins    int        `json:"pinfall_wins"`
	SubmissionWins int        `json:"submission_wins"`
	KOWins         int        `json:"ko_wins"`
	DQWins         int        `json:"dq_wins"`
	OtherWins      int        `json:"other_wins"`
	CurrentStreak  int        `json:"current_streak"`
	BestStreak     int        `json:"best_streak"`
	TitleDefenses  int        `json:"title_defenses"`
	TitlesWon      int        `json:"titles_won"`
	MainEventWins  int        `json:"main_event_wins"`
	LastMatchDate  *time.Time `json:"last_match_date"`
	LastOpponent   string     `json:"last_opponent"`
	LastResult     string     `json:"last_result"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TotalMatches is wins + losses + draws.
func (s WrestlerStats) TotalMatches() int {
	return s.Wins + s.Losses + s.Draws
}

// MatchRecord is a write-once entry of the match log. Participants are kept in
// symmetric slots so queries must check both orientations. Seq is the
// insertion order and breaks ties between records with the same CreatedAt.
type MatchRecord struct {
	ID            string    `json:"id"`
	Seq           int64     `json:"seq"`
	EventID       string    `json:"event_id"`
	Wrestler1ID   string    `json:"wrestler1_id"`
	Wrestler2ID   string    `json:"wrestler2_id"`
	WinnerID      string    `json:"winner_id"`
	LoserID       string    `json:"loser_id"`
	Method        string    `json:"method"`
	IsForTitle    bool      `json:"is_for_title"`
	IsMainEvent   bool      `json:"is_main_event"`
	IsNewChampion bool      `json:"is_new_champion"`
	IsTagTeam     bool      `json:"is_tag_team"`
	IsDraw        bool      `json:"is_draw"`
	CreatedAt     time.Time `json:"created_at"`
}

// Involves reports whether a and b are the opposing pair of the record, in
// either orientation.
func (m MatchRecord) Involves(a, b string) bool {
	return (m.Wrestler1ID == a && m.Wrestler2ID == b) || (m.Wrestler1ID == b && m.Wrestler2ID == a)
}

// MatchOutcome describes a finished match as submitted by the admin workflow.
type MatchOutcome struct {
	EventID       string    `json:"event_id"`
	WinnerID      string    `json:"winner_id"`
	LoserID       string    `json:"loser_id"`
	Method        string    `json:"method"`
	IsForTitle    bool      `json:"is_for_title"`
	IsMainEvent   bool      `json:"is_main_event"`
	IsNewChampion bool      `json:"is_new_champion"`
	IsTagTeam     bool      `json:"is_tag_team"`
	IsDraw        bool      `json:"is_draw"`
	EventDate     time.Time `json:"event_date"`
}

type RatingHistory struct {
	ID           string    `json:"id"`
	WrestlerID   string    `json:"wrestler_id"`
	MatchID      string    `json:"match_id"`
	RatingBefore int       `json:"rating_before"`
	RatingAfter  int       `json:"rating_after"`
	Change       int       `json:"change"`
	CreatedAt    time.Time `json:"created_at"`
}

// ParticipantUpdate is the next state of one side of a recorded match.
// Change is NewRating - PreviousRating, after the floor clamp.
type ParticipantUpdate struct {
	WrestlerID      string
	PreviousRating  int
	PreviousVersion int
	NewRating       int
	Change          int
	Stats           WrestlerStats
}

// MatchResultSet is everything persisted for one recorded match.
type MatchResultSet struct {
	Record       MatchRecord
	Participants [2]ParticipantUpdate
}

type HeadToHead struct {
	Wrestler1ID   string        `json:"wrestler1_id"`
	Wrestler2ID   string        `json:"wrestler2_id"`
	Wrestler1Wins int           `json:"wrestler1_wins"`
	Wrestler2Wins int           `json:"wrestler2_wins"`
	Draws         int           `json:"draws"`
	Matches       []MatchRecord `json:"matches"`
}

type Tier struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// RankingEntry is a wrestler with derived display fields.
type RankingEntry struct {
	Wrestler
	Position      int    `json:"position"`
	Tier          Tier   `json:"tier"`
	Movement      string `json:"movement"`
	WinPercentage int    `json:"win_percentage"`
}

type WrestlerProfile struct {
	Wrestler      Wrestler      `json:"wrestler"`
	Stats         WrestlerStats `json:"stats"`
	Tier          Tier          `json:"tier"`
	Movement      string        `json:"movement"`
	WinPercentage int           `json:"win_percentage"`
}

type RecordedMatch struct {
	Record MatchRecord      `json:"record"`
	Winner ParticipantState `json:"winner"`
	Loser  ParticipantState `json:"loser"`
}

type ParticipantState struct {
	WrestlerID string        `json:"wrestler_id"`
	OldRating  int           `json:"old_rating"`
	NewRating  int           `json:"new_rating"`
	Change     int           `json:"change"`
	Stats      WrestlerStats `json:"stats"`
}

// LeagueSnapshot is the full derived state rebuilt by replaying the match log.
type LeagueSnapshot struct {
	Wrestlers []Wrestler
	Stats     []WrestlerStats
	History   []RatingHistory
}

type RecalculationSummary struct {
	Wrestlers int `json:"wrestlers"`
	Matches   int `json:"matches"`
	Skipped   int `json:"skipped"`
}
