package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lmercier/pongtracker/internal/domain"
)

func TestEloHistoryNewPlayer(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice")

	histories, err := s.EloHistory(ctx, nil)
	require.NoError(t, err)
	require.Len(t, histories, 1)
	require.Equal(t, players[0].ID, histories[0].Player.ID)
	require.Equal(t, []domain.RatingPoint{{
		Date: players[0].RegisteredAt,
		Elo:  domain.StartingElo,
	}}, histories[0].Points)
}

func TestEloHistoryReplay(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice", "Bob")

	_, err := s.CreateMatchWithScore(ctx, players[0].ID, players[1].ID, 11, 9)
	require.NoError(t, err)
	s.now = func() time.Time {
		return time.Date(2023, time.April, 12, 16, 0, 0, 0, time.UTC)
	}
	_, err = s.CreateMatchWithScore(ctx, players[1].ID, players[0].ID, 11, 5)
	require.NoError(t, err)

	histories, err := s.EloHistory(ctx, nil)
	require.NoError(t, err)
	require.Len(t, histories, 2)

	alice := histories[0]
	require.Len(t, alice.Points, 3)
	require.Equal(t, domain.StartingElo, alice.Points[0].Elo)
	require.Equal(t, 1013, alice.Points[1].Elo)
	require.Equal(t, 1000, alice.Points[2].Elo)

	bob := histories[1]
	require.Len(t, bob.Points, 3)
	require.Equal(t, 988, bob.Points[1].Elo)
	require.Equal(t, 1001, bob.Points[2].Elo)

	// stored ratings match the replayed ones
	stored, err := s.GetPlayer(ctx, players[0].ID)
	require.NoError(t, err)
	require.Equal(t, 1000, stored.EloRating)

	again, err := s.EloHistory(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, histories, again)
}

func TestEloHistoryFiltered(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice", "Bob", "Carol")

	_, err := s.CreateMatchWithScore(ctx, players[0].ID, players[1].ID, 11, 9)
	require.NoError(t, err)
	_, err = s.CreateMatchWithScore(ctx, players[0].ID, players[2].ID, 11, 2)
	require.NoError(t, err)

	histories, err := s.EloHistory(ctx, []int64{players[0].ID, players[1].ID})
	require.NoError(t, err)
	require.Len(t, histories, 2)

	// the match against the untracked player is not replayed
	alice := histories[0]
	require.Len(t, alice.Points, 2)
	require.Equal(t, 1013, alice.Points[1].Elo)
}
