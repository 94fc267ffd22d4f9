package service

import (
	"context"
	"time"

	"github.com/lmercier/pongtracker/internal/domain"
)

// closeRaceGap is the rating distance under which two neighbors in the
// ranking count as a close race.
const closeRaceGap = 50

func (s *PlayerService) TotalMatches(ctx context.Context) (int, error) {
	matches, err := s.matchStorage.ListMatches(ctx)
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

// PlayerOfWeek returns the player with the most wins since Monday. On
// Mondays there is no prior data in the period, so no winner is reported.
func (s *PlayerService) PlayerOfWeek(ctx context.Context) (domain.PeriodWinner, bool, error) {
	now := s.now()
	if now.Weekday() == time.Monday {
		return domain.PeriodWinner{}, false, nil
	}
	return s.playerOfPeriod(ctx, weekStart(now))
}

// PlayerOfMonth is PlayerOfWeek for the calendar month; empty on the 1st.
func (s *PlayerService) PlayerOfMonth(ctx context.Context) (domain.PeriodWinner, bool, error) {
	now := s.now()
	if now.Day() == 1 {
		return domain.PeriodWinner{}, false, nil
	}
	return s.playerOfPeriod(ctx, monthStart(now))
}

func (s *PlayerService) playerOfPeriod(ctx context.Context, since time.Time) (domain.PeriodWinner, bool, error) {
	matches, err := s.matchStorage.ListMatches(ctx)
	if err != nil {
		return domain.PeriodWinner{}, false, err
	}
	winnerID, wins, ok := mostWins(matches, since)
	if !ok {
		return domain.PeriodWinner{}, false, nil
	}
	player, err := s.playerStorage.GetPlayer(ctx, winnerID)
	if err != nil {
		return domain.PeriodWinner{}, false, err
	}
	return domain.PeriodWinner{Player: player, Wins: wins}, true, nil
}

// mostWins tallies finished matches played at or after since. Equal win
// counts resolve to the lowest player id.
func mostWins(matches []domain.Match, since time.Time) (int64, int, bool) {
	wins := make(map[int64]int)
	for _, match := range matches {
		if !match.IsFinished() {
			continue
		}
		if match.PlayedAt.Before(since) {
			continue
		}
		wins[match.Winner.ID]++
	}
	var bestID int64
	best := 0
	for id, count := range wins {
		if count > best || (count == best && best > 0 && id < bestID) {
			bestID = id
			best = count
		}
	}
	if best == 0 {
		return 0, 0, false
	}
	return bestID, best, true
}

// weekStart returns midnight of the Monday of now's week.
func weekStart(now time.Time) time.Time {
	daysSinceMonday := int(now.Weekday()) - 1
	if now.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}
	y, m, d := now.AddDate(0, 0, -daysSinceMonday).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// monthStart returns midnight of the first day of now's month.
func monthStart(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
}

// CloseRaces reports players whose rating is within closeRaceGap of the
// player directly above or below them in the ranking. The first and last
// players are never reported: they have no neighbor on one side.
func (s *PlayerService) CloseRaces(ctx context.Context) ([]domain.CloseRace, error) {
	ratings, err := s.GetRatings(ctx)
	if err != nil {
		return nil, err
	}
	var races []domain.CloseRace
	for i := 1; i < len(ratings)-1; i++ {
		ahead := ratings[i-1]
		behind := ratings[i+1]
		race := domain.CloseRace{
			Player:    ratings[i],
			Ahead:     ahead,
			GapAhead:  ahead.EloRating - ratings[i].EloRating,
			Behind:    behind,
			GapBehind: ratings[i].EloRating - behind.EloRating,
		}
		if race.GapAhead <= closeRaceGap || race.GapBehind <= closeRaceGap {
			races = append(races, race)
		}
	}
	return races, nil
}
