package domain

import (
	"time"
)

// WinningScore finishes a match: the first side to reach it wins.
const WinningScore = 11

type Match struct {
	ID       int64
	PlayerA  Player
	PlayerB  Player
	ScoreA   int
	ScoreB   int
	Winner   Player
	PlayedAt time.Time
}

// IsFinished reports whether either side has reached the winning score.
// Until then the persisted winner is a placeholder and means nothing.
func (m Match) IsFinished() bool {
	return m.ScoreA >= WinningScore || m.ScoreB >= WinningScore
}
