package storage

import (
	"context"

	"github.com/lmercier/pongtracker/internal/domain"
)

type PlayerStorage interface {
	CreatePlayer(ctx context.Context, player domain.Player) (domain.Player, error)
	ListPlayers(ctx context.Context) ([]domain.Player, error)
	GetPlayer(ctx context.Context, id int64) (domain.Player, error)
}

type MatchStorage interface {
	CreateMatch(ctx context.Context, match domain.Match) (domain.Match, error)
	GetMatch(ctx context.Context, id int64) (domain.Match, error)
	// CurrentMatch returns the single in-progress match, if one exists.
	CurrentMatch(ctx context.Context) (domain.Match, bool, error)
	// ListMatches returns all matches in ascending play order.
	ListMatches(ctx context.Context) ([]domain.Match, error)
	UpdateScore(ctx context.Context, matchID int64, scoreA, scoreB int, winnerID int64) (domain.Match, error)
	FinishMatch(ctx context.Context, finish Finish) (domain.Match, error)
}

// Finish is the terminal write of a match. Final scores, the winner and
// both players' new ratings must land in one transaction: a reader must
// never observe a recorded winner next to stale ratings.
type Finish struct {
	MatchID    int64
	ScoreA     int
	ScoreB     int
	WinnerID   int64
	PlayerAID  int64
	NewRatingA int
	PlayerBID  int64
	NewRatingB int
}
