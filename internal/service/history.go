package service

import (
	"context"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/lmercier/pongtracker/internal/domain"
)

// EloHistory replays every finished match in play order and returns, per
// tracked player, the sequence of rating snapshots. Each history starts
// with a point at the player's registration date and rating. The result
// is a pure function of the persisted players and matches; replaying twice
// yields identical output.
//
// An empty playerIDs slice tracks everyone. Matches where either side is
// not tracked are skipped, so a filtered history shows only games between
// tracked players (matching what the rating chart can meaningfully draw).
func (s *PlayerService) EloHistory(ctx context.Context, playerIDs []int64) ([]domain.PlayerHistory, error) {
	players, err := s.playerStorage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	tracked := mapset.NewSet[int64]()
	if len(playerIDs) == 0 {
		for _, player := range players {
			tracked.Add(player.ID)
		}
	} else {
		tracked.Append(playerIDs...)
	}

	histories := make(map[int64]*domain.PlayerHistory)
	ratings := make(map[int64]int)
	for _, player := range players {
		if !tracked.Contains(player.ID) {
			continue
		}
		histories[player.ID] = &domain.PlayerHistory{
			Player: player,
			Points: []domain.RatingPoint{{
				Date: player.RegisteredAt,
				Elo:  domain.StartingElo,
			}},
		}
		ratings[player.ID] = domain.StartingElo
	}

	matches, err := s.matchStorage.ListMatches(ctx)
	if err != nil {
		return nil, err
	}
	for _, match := range matches {
		if !match.IsFinished() {
			continue
		}
		if !tracked.Contains(match.PlayerA.ID) || !tracked.Contains(match.PlayerB.ID) {
			continue
		}
		newRatingA, newRatingB := replayMatch(ratings[match.PlayerA.ID], ratings[match.PlayerB.ID], match)
		ratings[match.PlayerA.ID] = newRatingA
		ratings[match.PlayerB.ID] = newRatingB
		histories[match.PlayerA.ID].Points = append(histories[match.PlayerA.ID].Points, domain.RatingPoint{
			Date: match.PlayedAt,
			Elo:  newRatingA,
		})
		histories[match.PlayerB.ID].Points = append(histories[match.PlayerB.ID].Points, domain.RatingPoint{
			Date: match.PlayedAt,
			Elo:  newRatingB,
		})
	}

	converted := make([]domain.PlayerHistory, 0, len(histories))
	for _, history := range histories {
		converted = append(converted, *history)
	}
	sort.Slice(converted, func(i, j int) bool {
		return converted[i].Player.ID < converted[j].Player.ID
	})
	return converted, nil
}
