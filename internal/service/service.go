package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lmercier/pongtracker/internal/cache/mem"
	"github.com/lmercier/pongtracker/internal/domain"
	"github.com/lmercier/pongtracker/internal/elo"
	"github.com/lmercier/pongtracker/internal/storage"
)

type PlayerService struct {
	playerStorage storage.PlayerStorage
	matchStorage  storage.MatchStorage
	cache         *mem.Cache
	log           *logrus.Entry
	now           func() time.Time

	mu        sync.RWMutex
	listeners []func(domain.Match)
}

func New(l *logrus.Logger, playerStorage storage.PlayerStorage, matchStorage storage.MatchStorage) *PlayerService {
	return &PlayerService{
		playerStorage: playerStorage,
		matchStorage:  matchStorage,
		cache:         mem.New(),
		log:           l.WithField("name", "player-service"),
		now:           time.Now,
	}
}

// OnMatchFinished registers a callback invoked after a match finishes and
// both ratings are durably written.
func (s *PlayerService) OnMatchFinished(fn func(domain.Match)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *PlayerService) CreatePlayer(ctx context.Context, name string, color string, isGuest bool) (domain.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Player{}, domain.ErrEmptyPlayerName
	}
	if color == "" {
		color = domain.DefaultColor
	}
	if _, ok, err := s.GetByName(ctx, name); err != nil {
		return domain.Player{}, err
	} else if ok {
		return domain.Player{}, domain.ErrPlayerExists
	}
	player, err := s.playerStorage.CreatePlayer(ctx, domain.Player{
		Name:         name,
		Color:        color,
		IsGuest:      isGuest,
		EloRating:    domain.StartingElo,
		RegisteredAt: s.now(),
	})
	if err != nil {
		return domain.Player{}, err
	}
	s.refreshCache(ctx)
	s.log.WithField("player", player.Name).Info("player registered")
	return player, nil
}

func (s *PlayerService) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	return s.playerStorage.ListPlayers(ctx)
}

func (s *PlayerService) GetPlayer(ctx context.Context, id int64) (domain.Player, error) {
	return s.playerStorage.GetPlayer(ctx, id)
}

// GetByName resolves a player by normalized display name.
func (s *PlayerService) GetByName(ctx context.Context, name string) (domain.Player, bool, error) {
	if player, ok := s.cache.GetPlayerByName(name); ok {
		return player, true, nil
	}
	players, err := s.playerStorage.ListPlayers(ctx)
	if err != nil {
		return domain.Player{}, false, err
	}
	s.cache.Update(players)
	player, ok := s.cache.GetPlayerByName(name)
	return player, ok, nil
}

// GetRatings returns all players ordered by rating, with games played, win
// counts and rank filled in from the finished-match history.
func (s *PlayerService) GetRatings(ctx context.Context) ([]domain.Player, error) {
	players, err := s.playerStorage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	matches, err := s.matchStorage.ListMatches(ctx)
	if err != nil {
		return nil, err
	}
	gamesPlayed := make(map[int64]int)
	wins := make(map[int64]int)
	for _, match := range matches {
		if !match.IsFinished() {
			continue
		}
		gamesPlayed[match.PlayerA.ID]++
		gamesPlayed[match.PlayerB.ID]++
		wins[match.Winner.ID]++
	}
	for i := range players {
		players[i].GamesPlayed = gamesPlayed[players[i].ID]
		players[i].Wins = wins[players[i].ID]
	}
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].EloRating > players[j].EloRating
	})
	for i := range players {
		players[i].RatingRank = i + 1
	}
	return players, nil
}

// GetMatches returns the match list, newest first, with the rating change
// each finished match caused for both players.
func (s *PlayerService) GetMatches(ctx context.Context) ([]domain.Match, error) {
	matches, err := s.matchStorage.ListMatches(ctx)
	if err != nil {
		return nil, err
	}
	ratings := make(map[int64]int)
	rating := func(id int64) int {
		if r, ok := ratings[id]; ok {
			return r
		}
		return domain.StartingElo
	}
	for i := range matches {
		if !matches[i].IsFinished() {
			continue
		}
		ratingA := rating(matches[i].PlayerA.ID)
		ratingB := rating(matches[i].PlayerB.ID)
		newRatingA, newRatingB := replayMatch(ratingA, ratingB, matches[i])
		matches[i].PlayerA.RatingChange = newRatingA - ratingA
		matches[i].PlayerB.RatingChange = newRatingB - ratingB
		ratings[matches[i].PlayerA.ID] = newRatingA
		ratings[matches[i].PlayerB.ID] = newRatingB
	}
	reverse(matches)
	return matches, nil
}

func (s *PlayerService) CurrentMatch(ctx context.Context) (domain.Match, bool, error) {
	return s.matchStorage.CurrentMatch(ctx)
}

// CreateMatch starts a live-tracked match at 0-0. The winner column holds
// player A as a placeholder until the match finishes.
func (s *PlayerService) CreateMatch(ctx context.Context, playerAID, playerBID int64) (domain.Match, error) {
	playerA, playerB, err := s.resolvePlayers(ctx, playerAID, playerBID)
	if err != nil {
		return domain.Match{}, err
	}
	if _, exists, err := s.matchStorage.CurrentMatch(ctx); err != nil {
		return domain.Match{}, err
	} else if exists {
		return domain.Match{}, domain.ErrMatchInProgressExists
	}
	match, err := s.matchStorage.CreateMatch(ctx, domain.Match{
		PlayerA:  playerA,
		PlayerB:  playerB,
		ScoreA:   0,
		ScoreB:   0,
		Winner:   playerA,
		PlayedAt: s.now(),
	})
	if err != nil {
		return domain.Match{}, err
	}
	s.log.WithFields(logrus.Fields{
		"match_id": match.ID,
		"player_a": playerA.Name,
		"player_b": playerB.Name,
	}).Info("match started")
	return match, nil
}

// CreateMatchWithScore records an already-played match. The result must be
// decisive: exactly one side at the winning score.
func (s *PlayerService) CreateMatchWithScore(ctx context.Context, playerAID, playerBID int64, scoreA, scoreB int) (domain.Match, error) {
	if err := validateScoreRange(scoreA, scoreB); err != nil {
		return domain.Match{}, err
	}
	if scoreA < domain.WinningScore && scoreB < domain.WinningScore {
		return domain.Match{}, fmt.Errorf("%w: one player must reach %d points", domain.ErrInvalidScore, domain.WinningScore)
	}
	if scoreA == domain.WinningScore && scoreB == domain.WinningScore {
		return domain.Match{}, fmt.Errorf("%w: both players cannot reach %d points", domain.ErrInvalidScore, domain.WinningScore)
	}
	playerA, playerB, err := s.resolvePlayers(ctx, playerAID, playerBID)
	if err != nil {
		return domain.Match{}, err
	}
	winner := playerB
	if scoreA >= domain.WinningScore {
		winner = playerA
	}
	match, err := s.matchStorage.CreateMatch(ctx, domain.Match{
		PlayerA:  playerA,
		PlayerB:  playerB,
		ScoreA:   scoreA,
		ScoreB:   scoreB,
		Winner:   winner,
		PlayedAt: s.now(),
	})
	if err != nil {
		return domain.Match{}, err
	}
	return s.finish(ctx, match)
}

// UpdateMatchScore changes the score of the in-progress match. Crossing the
// winning score finishes the match: the score write, the winner and both
// rating updates land in one transaction.
func (s *PlayerService) UpdateMatchScore(ctx context.Context, matchID int64, scoreA, scoreB int) (domain.Match, error) {
	if err := validateScoreRange(scoreA, scoreB); err != nil {
		return domain.Match{}, err
	}
	if scoreA == domain.WinningScore && scoreB == domain.WinningScore {
		return domain.Match{}, fmt.Errorf("%w: both players cannot reach %d points", domain.ErrInvalidScore, domain.WinningScore)
	}
	match, err := s.matchStorage.GetMatch(ctx, matchID)
	if err != nil {
		return domain.Match{}, err
	}
	if match.IsFinished() {
		return domain.Match{}, domain.ErrMatchAlreadyFinished
	}
	winner := match.PlayerB
	if scoreA >= domain.WinningScore {
		winner = match.PlayerA
	}
	match.ScoreA = scoreA
	match.ScoreB = scoreB
	match.Winner = winner
	if match.IsFinished() {
		return s.finish(ctx, match)
	}
	return s.matchStorage.UpdateScore(ctx, matchID, scoreA, scoreB, winner.ID)
}

// finish runs the rating update exactly once for a match that has reached a
// decisive score. The caller supplies the match with final scores and winner
// already set in memory; ratings are read fresh from storage.
func (s *PlayerService) finish(ctx context.Context, match domain.Match) (domain.Match, error) {
	playerA, err := s.playerStorage.GetPlayer(ctx, match.PlayerA.ID)
	if err != nil {
		return domain.Match{}, err
	}
	playerB, err := s.playerStorage.GetPlayer(ctx, match.PlayerB.ID)
	if err != nil {
		return domain.Match{}, err
	}

	expectedA := elo.ExpectedScore(playerA.EloRating, playerB.EloRating)
	expectedB := 1 - expectedA
	pointsA, pointsB := elo.Lose, elo.Win
	if match.Winner.ID == playerA.ID {
		pointsA, pointsB = elo.Win, elo.Lose
	}
	newRatingA := elo.NewRating(playerA.EloRating, expectedA, pointsA)
	newRatingB := elo.NewRating(playerB.EloRating, expectedB, pointsB)

	finished, err := s.matchStorage.FinishMatch(ctx, storage.Finish{
		MatchID:    match.ID,
		ScoreA:     match.ScoreA,
		ScoreB:     match.ScoreB,
		WinnerID:   match.Winner.ID,
		PlayerAID:  playerA.ID,
		NewRatingA: newRatingA,
		PlayerBID:  playerB.ID,
		NewRatingB: newRatingB,
	})
	if err != nil {
		return domain.Match{}, err
	}
	s.refreshCache(ctx)
	s.log.WithFields(logrus.Fields{
		"match_id": finished.ID,
		"winner":   finished.Winner.Name,
		"score":    fmt.Sprintf("%d:%d", finished.ScoreA, finished.ScoreB),
		"elo_a":    newRatingA,
		"elo_b":    newRatingB,
	}).Info("match finished")
	s.notify(finished)
	return finished, nil
}

// PlayerData is everything the player card shows.
type PlayerData struct {
	Player  domain.Player
	Results []domain.PlayerStats
	History []domain.RatingPoint
}

func (s *PlayerService) GetPlayerData(ctx context.Context, id int64) (PlayerData, error) {
	ratings, err := s.GetRatings(ctx)
	if err != nil {
		return PlayerData{}, err
	}
	var player domain.Player
	found := false
	for _, p := range ratings {
		if p.ID == id {
			player = p
			found = true
			break
		}
	}
	if !found {
		return PlayerData{}, domain.ErrPlayerNotFound
	}

	matches, err := s.matchStorage.ListMatches(ctx)
	if err != nil {
		return PlayerData{}, err
	}
	results := make(map[int64]domain.PlayerStats)
	for _, match := range matches {
		if !match.IsFinished() {
			continue
		}
		if match.PlayerA.ID != id && match.PlayerB.ID != id {
			continue
		}
		other := match.PlayerB
		if other.ID == id {
			other = match.PlayerA
		}
		r := results[other.ID]
		r.Player = other
		if match.Winner.ID == id {
			r.Wins++
		} else {
			r.Loses++
		}
		results[other.ID] = r
	}
	converted := make([]domain.PlayerStats, 0, len(results))
	for _, r := range results {
		converted = append(converted, r)
	}
	sort.Slice(converted, func(i, j int) bool {
		return converted[i].Player.ID < converted[j].Player.ID
	})

	histories, err := s.EloHistory(ctx, []int64{id})
	if err != nil {
		return PlayerData{}, err
	}
	var history []domain.RatingPoint
	if len(histories) == 1 {
		history = histories[0].Points
	}
	return PlayerData{
		Player:  player,
		Results: converted,
		History: history,
	}, nil
}

func (s *PlayerService) resolvePlayers(ctx context.Context, playerAID, playerBID int64) (domain.Player, domain.Player, error) {
	if playerAID == 0 || playerBID == 0 {
		return domain.Player{}, domain.Player{}, domain.ErrMissingPlayer
	}
	if playerAID == playerBID {
		return domain.Player{}, domain.Player{}, domain.ErrMissingPlayer
	}
	playerA, err := s.playerStorage.GetPlayer(ctx, playerAID)
	if err != nil {
		return domain.Player{}, domain.Player{}, err
	}
	playerB, err := s.playerStorage.GetPlayer(ctx, playerBID)
	if err != nil {
		return domain.Player{}, domain.Player{}, err
	}
	return playerA, playerB, nil
}

func validateScoreRange(scoreA, scoreB int) error {
	if scoreA < 0 || scoreB < 0 {
		return fmt.Errorf("%w: scores cannot be negative", domain.ErrInvalidScore)
	}
	if scoreA > domain.WinningScore || scoreB > domain.WinningScore {
		return fmt.Errorf("%w: the maximum score is %d", domain.ErrInvalidScore, domain.WinningScore)
	}
	return nil
}

// replayMatch recomputes the rating update of a finished match from the
// given pre-match ratings, exactly as the finish step did.
func replayMatch(ratingA, ratingB int, match domain.Match) (int, int) {
	expectedA := elo.ExpectedScore(ratingA, ratingB)
	expectedB := 1 - expectedA
	pointsA, pointsB := elo.Lose, elo.Win
	if match.Winner.ID == match.PlayerA.ID {
		pointsA, pointsB = elo.Win, elo.Lose
	}
	return elo.NewRating(ratingA, expectedA, pointsA), elo.NewRating(ratingB, expectedB, pointsB)
}

func (s *PlayerService) notify(match domain.Match) {
	s.mu.RLock()
	listeners := make([]func(domain.Match), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(match)
	}
}

func (s *PlayerService) refreshCache(ctx context.Context) {
	players, err := s.playerStorage.ListPlayers(ctx)
	if err != nil {
		s.cache.Invalidate()
		s.log.WithError(err).Warn("unable to refresh player cache")
		return
	}
	s.cache.Update(players)
}

func reverse(m []domain.Match) {
	for i, j := 0, len(m)-1; i < j; i, j = i+1, j-1 {
		m[i], m[j] = m[j], m[i]
	}
}
