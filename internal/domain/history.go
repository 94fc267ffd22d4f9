package domain

import (
	"time"
)

// RatingPoint is one snapshot of a player's rating after a finished match
// (or the registration point for the very first entry).
type RatingPoint struct {
	Date time.Time
	Elo  int
}

type PlayerHistory struct {
	Player Player
	Points []RatingPoint
}

// PeriodWinner is the player with the most wins inside a week or month.
type PeriodWinner struct {
	Player Player
	Wins   int
}

// CloseRace marks a player whose rating is within reach of a neighbor in
// the ranking. Gaps are measured against the players directly above and
// below; the top and bottom of the table are never reported.
type CloseRace struct {
	Player    Player
	Ahead     Player
	GapAhead  int
	Behind    Player
	GapBehind int
}
