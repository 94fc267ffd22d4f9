package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lmercier/pongtracker/internal/domain"
	"github.com/lmercier/pongtracker/internal/logger"
	"github.com/lmercier/pongtracker/internal/storage"
)

// memStore mimics the sqlite storage semantics in memory, including the
// schema-level single-in-progress-match constraint and the atomic finish.
type memStore struct {
	players      map[int64]domain.Player
	matches      map[int64]domain.Match
	nextPlayerID int64
	nextMatchID  int64
	finishCalls  int
}

var _ storage.PlayerStorage = (*memStore)(nil)
var _ storage.MatchStorage = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		players: make(map[int64]domain.Player),
		matches: make(map[int64]domain.Match),
	}
}

func (m *memStore) CreatePlayer(_ context.Context, player domain.Player) (domain.Player, error) {
	m.nextPlayerID++
	player.ID = m.nextPlayerID
	m.players[player.ID] = player
	return player, nil
}

func (m *memStore) ListPlayers(_ context.Context) ([]domain.Player, error) {
	players := make([]domain.Player, 0, len(m.players))
	for _, player := range m.players {
		players = append(players, player)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

func (m *memStore) GetPlayer(_ context.Context, id int64) (domain.Player, error) {
	player, ok := m.players[id]
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	return player, nil
}

func (m *memStore) CreateMatch(_ context.Context, match domain.Match) (domain.Match, error) {
	if !match.IsFinished() {
		for _, existing := range m.matches {
			if !existing.IsFinished() {
				return domain.Match{}, domain.ErrMatchInProgressExists
			}
		}
	}
	m.nextMatchID++
	match.ID = m.nextMatchID
	m.matches[match.ID] = match
	return match, nil
}

func (m *memStore) GetMatch(_ context.Context, id int64) (domain.Match, error) {
	match, ok := m.matches[id]
	if !ok {
		return domain.Match{}, domain.ErrMatchNotFound
	}
	return m.stitch(match), nil
}

func (m *memStore) CurrentMatch(_ context.Context) (domain.Match, bool, error) {
	for _, match := range m.matches {
		if !match.IsFinished() {
			return m.stitch(match), true, nil
		}
	}
	return domain.Match{}, false, nil
}

func (m *memStore) ListMatches(_ context.Context) ([]domain.Match, error) {
	matches := make([]domain.Match, 0, len(m.matches))
	for _, match := range m.matches {
		matches = append(matches, m.stitch(match))
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].PlayedAt.Equal(matches[j].PlayedAt) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].PlayedAt.Before(matches[j].PlayedAt)
	})
	return matches, nil
}

func (m *memStore) UpdateScore(_ context.Context, matchID int64, scoreA, scoreB int, winnerID int64) (domain.Match, error) {
	match, ok := m.matches[matchID]
	if !ok {
		return domain.Match{}, domain.ErrMatchNotFound
	}
	match.ScoreA = scoreA
	match.ScoreB = scoreB
	match.Winner = m.players[winnerID]
	m.matches[matchID] = match
	return m.stitch(match), nil
}

func (m *memStore) FinishMatch(_ context.Context, finish storage.Finish) (domain.Match, error) {
	match, ok := m.matches[finish.MatchID]
	if !ok {
		return domain.Match{}, domain.ErrMatchNotFound
	}
	m.finishCalls++
	match.ScoreA = finish.ScoreA
	match.ScoreB = finish.ScoreB
	match.Winner = m.players[finish.WinnerID]
	m.matches[finish.MatchID] = match

	playerA := m.players[finish.PlayerAID]
	playerA.EloRating = finish.NewRatingA
	m.players[finish.PlayerAID] = playerA
	playerB := m.players[finish.PlayerBID]
	playerB.EloRating = finish.NewRatingB
	m.players[finish.PlayerBID] = playerB
	return m.stitch(match), nil
}

func (m *memStore) stitch(match domain.Match) domain.Match {
	match.PlayerA = m.players[match.PlayerA.ID]
	match.PlayerB = m.players[match.PlayerB.ID]
	match.Winner = m.players[match.Winner.ID]
	return match
}

func newTestService(t *testing.T) (*PlayerService, *memStore) {
	t.Helper()
	store := newMemStore()
	s := New(logger.New(false), store, store)
	s.now = func() time.Time {
		return time.Date(2023, time.April, 12, 15, 0, 0, 0, time.UTC)
	}
	return s, store
}

func registerPlayers(t *testing.T, s *PlayerService, names ...string) []domain.Player {
	t.Helper()
	players := make([]domain.Player, 0, len(names))
	for _, name := range names {
		player, err := s.CreatePlayer(context.Background(), name, "", false)
		require.NoError(t, err)
		players = append(players, player)
	}
	return players
}

func TestCreatePlayer(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	player, err := s.CreatePlayer(ctx, "  Alice ", "", true)
	require.NoError(t, err)
	require.Equal(t, "Alice", player.Name)
	require.Equal(t, domain.DefaultColor, player.Color)
	require.Equal(t, domain.StartingElo, player.EloRating)
	require.True(t, player.IsGuest)

	_, err = s.CreatePlayer(ctx, "   ", "", false)
	require.ErrorIs(t, err, domain.ErrEmptyPlayerName)

	_, err = s.CreatePlayer(ctx, "ALICE", "", false)
	require.ErrorIs(t, err, domain.ErrPlayerExists)
}

func TestCreateMatchValidation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice", "Bob")

	_, err := s.CreateMatch(ctx, 0, players[1].ID)
	require.ErrorIs(t, err, domain.ErrMissingPlayer)

	_, err = s.CreateMatch(ctx, players[0].ID, players[0].ID)
	require.ErrorIs(t, err, domain.ErrMissingPlayer)

	_, err = s.CreateMatch(ctx, players[0].ID, 999)
	require.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestCreateMatchInProgressExists(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice", "Bob", "Carol")

	match, err := s.CreateMatch(ctx, players[0].ID, players[1].ID)
	require.NoError(t, err)
	require.Equal(t, 0, match.ScoreA)
	require.Equal(t, 0, match.ScoreB)
	// provisional winner placeholder until the match finishes
	require.Equal(t, players[0].ID, match.Winner.ID)

	_, err = s.CreateMatch(ctx, players[1].ID, players[2].ID)
	require.ErrorIs(t, err, domain.ErrMatchInProgressExists)
	require.Len(t, store.matches, 1)
}

func TestCreateMatchWithScore(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice", "Bob")

	match, err := s.CreateMatchWithScore(ctx, players[0].ID, players[1].ID, 11, 9)
	require.NoError(t, err)
	require.Equal(t, players[0].ID, match.Winner.ID)
	require.True(t, match.IsFinished())
	require.Equal(t, 1, store.finishCalls)

	playerA, err := s.GetPlayer(ctx, players[0].ID)
	require.NoError(t, err)
	playerB, err := s.GetPlayer(ctx, players[1].ID)
	require.NoError(t, err)
	require.Equal(t, 1013, playerA.EloRating)
	require.Equal(t, 988, playerB.EloRating)
	// independent rounding: the pair gains one point, by design
	require.Equal(t, 2001, playerA.EloRating+playerB.EloRating)
}

func TestCreateMatchWithScoreInvalid(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice", "Bob")

	tests := []struct {
		name   string
		scoreA int
		scoreB int
	}{
		{name: "double finish", scoreA: 11, scoreB: 11},
		{name: "no one finished", scoreA: 8, scoreB: 5},
		{name: "negative", scoreA: -1, scoreB: 11},
		{name: "over maximum", scoreA: 12, scoreB: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateMatchWithScore(ctx, players[0].ID, players[1].ID, tt.scoreA, tt.scoreB)
			require.ErrorIs(t, err, domain.ErrInvalidScore)
		})
	}
	require.Empty(t, store.matches)
	require.Zero(t, store.finishCalls)
}

func TestUpdateMatchScoreLifecycle(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice", "Bob")

	match, err := s.CreateMatch(ctx, players[0].ID, players[1].ID)
	require.NoError(t, err)

	updated, err := s.UpdateMatchScore(ctx, match.ID, 5, 3)
	require.NoError(t, err)
	require.False(t, updated.IsFinished())
	require.Zero(t, store.finishCalls)

	playerA, err := s.GetPlayer(ctx, players[0].ID)
	require.NoError(t, err)
	require.Equal(t, domain.StartingElo, playerA.EloRating)

	updated, err = s.UpdateMatchScore(ctx, match.ID, 11, 3)
	require.NoError(t, err)
	require.True(t, updated.IsFinished())
	require.Equal(t, players[0].ID, updated.Winner.ID)
	require.Equal(t, 1, store.finishCalls)

	// a finished match is immutable and never rated twice
	_, err = s.UpdateMatchScore(ctx, match.ID, 11, 4)
	require.ErrorIs(t, err, domain.ErrMatchAlreadyFinished)
	require.Equal(t, 1, store.finishCalls)

	playerA, err = s.GetPlayer(ctx, players[0].ID)
	require.NoError(t, err)
	require.Equal(t, 1013, playerA.EloRating)
}

func TestUpdateMatchScoreErrors(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice", "Bob")

	_, err := s.UpdateMatchScore(ctx, 42, 1, 0)
	require.ErrorIs(t, err, domain.ErrMatchNotFound)

	match, err := s.CreateMatch(ctx, players[0].ID, players[1].ID)
	require.NoError(t, err)

	_, err = s.UpdateMatchScore(ctx, match.ID, -1, 0)
	require.ErrorIs(t, err, domain.ErrInvalidScore)
	_, err = s.UpdateMatchScore(ctx, match.ID, 12, 0)
	require.ErrorIs(t, err, domain.ErrInvalidScore)

	// both sides at the winning score is never a valid state
	_, err = s.UpdateMatchScore(ctx, match.ID, 11, 11)
	require.ErrorIs(t, err, domain.ErrInvalidScore)
	updated, err := store.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	require.False(t, updated.IsFinished())
}

func TestGetRatings(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice", "Bob", "Carol")

	_, err := s.CreateMatchWithScore(ctx, players[0].ID, players[1].ID, 11, 7)
	require.NoError(t, err)

	ratings, err := s.GetRatings(ctx)
	require.NoError(t, err)
	require.Len(t, ratings, 3)
	require.Equal(t, "Alice", ratings[0].Name)
	require.Equal(t, 1, ratings[0].RatingRank)
	require.Equal(t, 1, ratings[0].Wins)
	require.Equal(t, 1, ratings[0].GamesPlayed)
	require.Equal(t, "Bob", ratings[2].Name)
	require.Equal(t, 3, ratings[2].RatingRank)
	require.Equal(t, 0, ratings[2].Wins)
}

func TestOnMatchFinished(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice", "Bob")

	var notified []domain.Match
	s.OnMatchFinished(func(match domain.Match) {
		notified = append(notified, match)
	})

	match, err := s.CreateMatch(ctx, players[0].ID, players[1].ID)
	require.NoError(t, err)
	require.Empty(t, notified)

	_, err = s.UpdateMatchScore(ctx, match.ID, 2, 11)
	require.NoError(t, err)
	require.Len(t, notified, 1)
	require.Equal(t, players[1].ID, notified[0].Winner.ID)
}
