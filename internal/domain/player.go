package domain

import (
	"time"
)

const (
	// StartingElo is the rating every player registers with.
	StartingElo = 1000

	// DefaultColor is used when registration supplies no display color.
	DefaultColor = "#3b82f6"
)

type Player struct {
	ID           int64
	Name         string
	Color        string
	IsGuest      bool
	EloRating    int
	RegisteredAt time.Time

	// Derived fields, filled by the service from match history.
	GamesPlayed  int
	Wins         int
	RatingChange int
	RatingRank   int
}

// PlayerStats is a head-to-head record against a single opponent.
type PlayerStats struct {
	Player Player
	Wins   int
	Loses  int
}
