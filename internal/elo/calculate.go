package elo

import "math"

type Points float64

const (
	Win  Points = 1
	Lose Points = 0
)

// KFactor controls how much a single match moves a rating.
const KFactor = 25

// ExpectedScore returns the logistic win probability of the first player.
// Ra - player rating.
// Rb - opponent rating.
// ExpectedScore(a, b) + ExpectedScore(b, a) == 1 up to float precision.
func ExpectedScore(Ra int, Rb int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(Rb-Ra)/400.0))
}

// NewRating applies one match result to a rating.
// Sa - points: 1 for win; 0 for lose. Draws are not played here.
// Rounds to the nearest integer, ties away from zero. Because both sides
// round independently the pair sum may drift by one point per match.
func NewRating(current int, expected float64, Sa Points) int {
	return int(math.Round(float64(current) + KFactor*(float64(Sa)-expected)))
}
