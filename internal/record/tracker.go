package record

import (
	"math"
	"strings"
	"time"

	"github.com/vytor/ringside/internal/models"
)

// Win method categories.
const (
	MethodPinfall    = "pinfall"
	MethodSubmission = "submission"
	MethodKO         = "ko"
	MethodDQ         = "dq"
	MethodOther      = "other"
)

const (
	ResultWin  = "win"
	ResultLoss = "loss"
	ResultDraw = "draw"
)

type Outcome int

const (
	Loss Outcome = iota
	Win
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return ResultWin
	case Draw:
		return ResultDraw
	default:
		return ResultLoss
	}
}

// MatchFacts holds the per-match inputs shared by both participants.
type MatchFacts struct {
	Method        string
	IsMainEvent   bool
	IsForTitle    bool
	IsNewChampion bool
	Opponent      string
	Date          time.Time
}

type methodRule struct {
	category string
	keywords []string
}

// Checked in order; the first rule with a matching keyword wins.
var methodRules = []methodRule{
	{MethodPinfall, []string{"pinfall", "pin"}},
	{MethodSubmission, []string{"submission", "rendición"}},
	{MethodKO, []string{"knockout", "ko"}},
	{MethodDQ, []string{"dq", "descalificación"}},
}

// CategorizeWinType maps a free-text finish onto a win method category.
func CategorizeWinType(method string) string {
	m := strings.ToLower(method)
	for _, rule := range methodRules {
		for _, kw := range rule.keywords {
			if strings.Contains(m, kw) {
				return rule.category
			}
		}
	}
	return MethodOther
}

// ApplyMatchResult folds a decisive result into stats.
func ApplyMatchResult(stats models.WrestlerStats, isWinner bool, facts MatchFacts) models.WrestlerStats {
	if isWinner {
		return Apply(stats, Win, facts)
	}
	return Apply(stats, Loss, facts)
}

// Apply folds one outcome into stats and returns the updated copy.
// A draw breaks the current run in either direction and leaves BestStreak alone.
func Apply(stats models.WrestlerStats, outcome Outcome, facts MatchFacts) models.WrestlerStats {
	switch outcome {
	case Win:
		stats.Wins++
		if stats.CurrentStreak >= 0 {
			stats.CurrentStreak++
		} else {
			stats.CurrentStreak = 1
		}
		if stats.CurrentStreak > stats.BestStreak {
			stats.BestStreak = stats.CurrentStreak
		}
		countWinMethod(&stats, facts.Method)
		if facts.IsMainEvent {
			stats.MainEventWins++
		}
		switch {
		case facts.IsNewChampion:
			stats.TitlesWon++
		case facts.IsForTitle:
			stats.TitleDefenses++
		}
	case Loss:
		stats.Losses++
		if stats.CurrentStreak <= 0 {
			stats.CurrentStreak--
		} else {
			stats.CurrentStreak = -1
		}
	case Draw:
		stats.Draws++
		stats.CurrentStreak = 0
	}

	date := facts.Date
	stats.LastMatchDate = &date
	stats.LastOpponent = facts.Opponent
	stats.LastResult = outcome.String()
	return stats
}

func countWinMethod(stats *models.WrestlerStats, method string) {
	switch CategorizeWinType(method) {
	case MethodPinfall:
		stats.PinfallWins++
	case MethodSubmission:
		stats.SubmissionWins++
	case MethodKO:
		stats.KOWins++
	case MethodDQ:
		stats.DQWins++
	default:
		stats.OtherWins++
	}
}

// CalculateWinPercentage returns wins over decided matches as a rounded
// percentage, or 0 when nothing has been decided.
func CalculateWinPercentage(wins, losses int) int {
	total := wins + losses
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(wins)*100/float64(total) + 0.5))
}
