package rating

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultRating = 1000
	MinRating     = 100

	KFactorStandard  = 32
	KFactorMainEvent = 40
	KFactorTitle     = 48
)

const (
	MovementUp   = "up"
	MovementDown = "down"
	MovementSame = "same"
)

var ErrInvalidRating = errors.New("invalid rating")

// Options carries the match importance flags that select the K-factor.
type Options struct {
	IsForTitle  bool
	IsMainEvent bool
}

type Change struct {
	WinnerNewRating int `json:"winner_new_rating"`
	LoserNewRating  int `json:"loser_new_rating"`
	WinnerChange    int `json:"winner_change"`
	LoserChange     int `json:"loser_change"`
}

// ExpectedScore is the logistic win expectation of a against b.
func ExpectedScore(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

// KFactor picks the K-factor. Title matches win over main events.
func KFactor(opts Options) int {
	switch {
	case opts.IsForTitle:
		return KFactorTitle
	case opts.IsMainEvent:
		return KFactorMainEvent
	default:
		return KFactorStandard
	}
}

// Effective returns the rating used for computation: 0 means unrated and
// becomes DefaultRating. Negative ratings are rejected.
func Effective(r int) (int, error) {
	if r < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRating, r)
	}
	if r == 0 {
		return DefaultRating, nil
	}
	return r, nil
}

// CalculateRatingChange returns post-match ratings for a decisive result.
func CalculateRatingChange(winnerRating, loserRating int, opts Options) (Change, error) {
	return calculate(winnerRating, loserRating, 1, opts)
}

// CalculateDrawChange applies an actual score of 0.5 to both sides. The first
// rating is reported in the Winner fields.
func CalculateDrawChange(ratingA, ratingB int, opts Options) (Change, error) {
	return calculate(ratingA, ratingB, 0.5, opts)
}

func calculate(a, b int, scoreA float64, opts Options) (Change, error) {
	a, err := Effective(a)
	if err != nil {
		return Change{}, err
	}
	b, err = Effective(b)
	if err != nil {
		return Change{}, err
	}

	k := float64(KFactor(opts))
	changeA := roundHalfUp(k * (scoreA - ExpectedScore(float64(a), float64(b))))
	changeB := roundHalfUp(k * ((1 - scoreA) - ExpectedScore(float64(b), float64(a))))

	return Change{
		WinnerNewRating: clamp(a + changeA),
		LoserNewRating:  clamp(b + changeB),
		WinnerChange:    changeA,
		LoserChange:     changeB,
	}, nil
}

// MovementFromChange classifies a rating delta.
func MovementFromChange(delta int) string {
	switch {
	case delta > 0:
		return MovementUp
	case delta < 0:
		return MovementDown
	default:
		return MovementSame
	}
}

func clamp(r int) int {
	if r < MinRating {
		return MinRating
	}
	return r
}

// math.Round sends -16.5 to -17; ratings round half toward +inf.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
