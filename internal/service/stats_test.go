package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "wednesday",
			now:  time.Date(2023, time.April, 12, 15, 30, 0, 0, time.UTC),
			want: time.Date(2023, time.April, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "monday is its own start",
			now:  time.Date(2023, time.April, 10, 9, 0, 0, 0, time.UTC),
			want: time.Date(2023, time.April, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday belongs to the previous monday",
			now:  time.Date(2023, time.April, 16, 23, 59, 0, 0, time.UTC),
			want: time.Date(2023, time.April, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "week spanning a month boundary",
			now:  time.Date(2023, time.May, 2, 12, 0, 0, 0, time.UTC),
			want: time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, weekStart(tt.now))
		})
	}
}

func TestMonthStart(t *testing.T) {
	now := time.Date(2023, time.April, 12, 15, 30, 0, 0, time.UTC)
	require.Equal(t, time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC), monthStart(now))
}

func TestPlayerOfWeek(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice", "Bob")

	// last Sunday, outside the current week
	s.now = func() time.Time {
		return time.Date(2023, time.April, 9, 12, 0, 0, 0, time.UTC)
	}
	_, err := s.CreateMatchWithScore(ctx, players[1].ID, players[0].ID, 11, 3)
	require.NoError(t, err)

	// Tuesday of the current week
	s.now = func() time.Time {
		return time.Date(2023, time.April, 11, 12, 0, 0, 0, time.UTC)
	}
	_, err = s.CreateMatchWithScore(ctx, players[0].ID, players[1].ID, 11, 9)
	require.NoError(t, err)

	s.now = func() time.Time {
		return time.Date(2023, time.April, 12, 15, 0, 0, 0, time.UTC)
	}
	winner, ok, err := s.PlayerOfWeek(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, players[0].ID, winner.Player.ID)
	require.Equal(t, 1, winner.Wins)
}

func TestPlayerOfWeekOnMonday(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice", "Bob")

	_, err := s.CreateMatchWithScore(ctx, players[0].ID, players[1].ID, 11, 9)
	require.NoError(t, err)

	s.now = func() time.Time {
		return time.Date(2023, time.April, 10, 12, 0, 0, 0, time.UTC)
	}
	_, ok, err := s.PlayerOfWeek(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPlayerOfWeekTieBreak(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice", "Bob", "Carol")

	_, err := s.CreateMatchWithScore(ctx, players[1].ID, players[2].ID, 11, 4)
	require.NoError(t, err)
	_, err = s.CreateMatchWithScore(ctx, players[0].ID, players[2].ID, 11, 4)
	require.NoError(t, err)

	winner, ok, err := s.PlayerOfWeek(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	// one win each, the lower id takes the title
	require.Equal(t, players[0].ID, winner.Player.ID)
}

func TestPlayerOfMonth(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice", "Bob")

	// end of March, outside the current month
	s.now = func() time.Time {
		return time.Date(2023, time.March, 31, 12, 0, 0, 0, time.UTC)
	}
	_, err := s.CreateMatchWithScore(ctx, players[1].ID, players[0].ID, 11, 3)
	require.NoError(t, err)

	s.now = func() time.Time {
		return time.Date(2023, time.April, 5, 12, 0, 0, 0, time.UTC)
	}
	_, err = s.CreateMatchWithScore(ctx, players[0].ID, players[1].ID, 11, 9)
	require.NoError(t, err)

	s.now = func() time.Time {
		return time.Date(2023, time.April, 12, 15, 0, 0, 0, time.UTC)
	}
	winner, ok, err := s.PlayerOfMonth(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, players[0].ID, winner.Player.ID)

	s.now = func() time.Time {
		return time.Date(2023, time.May, 1, 9, 0, 0, 0, time.UTC)
	}
	_, ok, err = s.PlayerOfMonth(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTotalMatches(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice", "Bob")

	total, err := s.TotalMatches(ctx)
	require.NoError(t, err)
	require.Zero(t, total)

	_, err = s.CreateMatchWithScore(ctx, players[0].ID, players[1].ID, 11, 9)
	require.NoError(t, err)

	total, err = s.TotalMatches(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, total)
}

func TestCloseRaces(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()
	players := registerPlayers(t, s, "Alice", "Bob", "Carol", "Dave")

	for i, elo := range []int{1200, 1160, 1100, 1040} {
		player := store.players[players[i].ID]
		player.EloRating = elo
		store.players[player.ID] = player
	}

	races, err := s.CloseRaces(ctx)
	require.NoError(t, err)
	require.Len(t, races, 1)
	require.Equal(t, players[1].ID, races[0].Player.ID)
	require.Equal(t, players[0].ID, races[0].Ahead.ID)
	require.Equal(t, 40, races[0].GapAhead)
	require.Equal(t, 60, races[0].GapBehind)
}

func TestCloseRacesTooFewPlayers(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	registerPlayers(t, s, "Alice", "Bob")

	races, err := s.CloseRaces(ctx)
	require.NoError(t, err)
	require.Empty(t, races)
}
