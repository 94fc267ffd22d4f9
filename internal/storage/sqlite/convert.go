package sqlite

import (
	"github.com/lmercier/pongtracker/gen/model"
	"github.com/lmercier/pongtracker/internal/domain"
)

func convertPlayerToDomain(player model.Players) domain.Player {
	return domain.Player{
		ID:           int64(player.ID),
		Name:         player.Name,
		Color:        player.Color,
		IsGuest:      player.IsGuest,
		EloRating:    int(player.Elo),
		RegisteredAt: player.CreatedAt,
	}
}

func convertPlayersToDomain(players []model.Players) []domain.Player {
	converted := make([]domain.Player, 0, len(players))
	for _, player := range players {
		converted = append(converted, convertPlayerToDomain(player))
	}
	return converted
}

func convertPlayerFromDomain(player domain.Player) model.Players {
	return model.Players{
		Name:      player.Name,
		Color:     player.Color,
		IsGuest:   player.IsGuest,
		Elo:       int32(player.EloRating),
		CreatedAt: player.RegisteredAt,
	}
}

func convertMatchFromDomain(match domain.Match) model.Matches {
	return model.Matches{
		PlayerA:  int32(match.PlayerA.ID),
		PlayerB:  int32(match.PlayerB.ID),
		ScoreA:   int32(match.ScoreA),
		ScoreB:   int32(match.ScoreB),
		Winner:   int32(match.Winner.ID),
		PlayedAt: match.PlayedAt,
	}
}

func convertMatchToDomain(match model.Matches, players map[int64]domain.Player) domain.Match {
	return domain.Match{
		ID:       int64(match.ID),
		PlayerA:  players[int64(match.PlayerA)],
		PlayerB:  players[int64(match.PlayerB)],
		ScoreA:   int(match.ScoreA),
		ScoreB:   int(match.ScoreB),
		Winner:   players[int64(match.Winner)],
		PlayedAt: match.PlayedAt,
	}
}
