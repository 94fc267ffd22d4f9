package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	sqlite3driver "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/lmercier/pongtracker/gen/model"
	"github.com/lmercier/pongtracker/gen/table"
	"github.com/lmercier/pongtracker/internal/config"
	"github.com/lmercier/pongtracker/internal/domain"
	sqlite3 "github.com/lmercier/pongtracker/internal/migrate"
	"github.com/lmercier/pongtracker/internal/storage"
)

type Storage struct {
	db  *sql.DB
	log *logrus.Entry
}

var _ storage.PlayerStorage = (*Storage)(nil)
var _ storage.MatchStorage = (*Storage)(nil)

func New(l *logrus.Logger, cfg config.Server) (*Storage, error) {
	log := l.WithField("name", "storage")
	db, err := sql.Open("sqlite3", buildSource(cfg.SqliteFile))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	err = sqlite3.UpServerDB(db)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}
	log.Info("storage connected")
	return &Storage{
		db:  db,
		log: log,
	}, nil
}

func buildSource(fileName string) string {
	return "file:" + fileName + "?cache=shared&_foreign_keys=on"
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) CreatePlayer(ctx context.Context, player domain.Player) (domain.Player, error) {
	var created model.Players
	err := table.Players.
		INSERT(table.Players.MutableColumns).
		MODEL(convertPlayerFromDomain(player)).
		RETURNING(table.Players.AllColumns).
		QueryContext(ctx, s.db, &created)
	if err != nil {
		if isUniqueViolation(err, "players.name") {
			return domain.Player{}, domain.ErrPlayerExists
		}
		return domain.Player{}, fmt.Errorf("create player: %w", err)
	}
	return convertPlayerToDomain(created), nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	var players []model.Players
	err := table.Players.
		SELECT(table.Players.AllColumns).
		FROM(table.Players).
		ORDER_BY(table.Players.ID.ASC()).
		QueryContext(ctx, s.db, &players)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return convertPlayersToDomain(players), nil
}

func (s *Storage) GetPlayer(ctx context.Context, id int64) (domain.Player, error) {
	var player model.Players
	err := table.Players.
		SELECT(table.Players.AllColumns).
		FROM(table.Players).
		WHERE(table.Players.ID.EQ(sqlite.Int(id))).
		QueryContext(ctx, s.db, &player)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return domain.Player{}, domain.ErrPlayerNotFound
		}
		return domain.Player{}, fmt.Errorf("get player: %w", err)
	}
	return convertPlayerToDomain(player), nil
}

func (s *Storage) CreateMatch(ctx context.Context, match domain.Match) (domain.Match, error) {
	var created model.Matches
	err := table.Matches.
		INSERT(table.Matches.MutableColumns).
		MODEL(convertMatchFromDomain(match)).
		RETURNING(table.Matches.AllColumns).
		QueryContext(ctx, s.db, &created)
	if err != nil {
		if isUniqueViolation(err, "matches_one_in_progress") {
			return domain.Match{}, domain.ErrMatchInProgressExists
		}
		return domain.Match{}, fmt.Errorf("create match: %w", err)
	}
	return s.GetMatch(ctx, int64(created.ID))
}

func (s *Storage) GetMatch(ctx context.Context, id int64) (domain.Match, error) {
	var match model.Matches
	err := table.Matches.
		SELECT(table.Matches.AllColumns).
		FROM(table.Matches).
		WHERE(table.Matches.ID.EQ(sqlite.Int(id))).
		QueryContext(ctx, s.db, &match)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return domain.Match{}, domain.ErrMatchNotFound
		}
		return domain.Match{}, fmt.Errorf("get match: %w", err)
	}
	players, err := s.playerMap(ctx)
	if err != nil {
		return domain.Match{}, err
	}
	return convertMatchToDomain(match, players), nil
}

func (s *Storage) CurrentMatch(ctx context.Context) (domain.Match, bool, error) {
	var match model.Matches
	err := table.Matches.
		SELECT(table.Matches.AllColumns).
		FROM(table.Matches).
		WHERE(
			table.Matches.ScoreA.LT(sqlite.Int(domain.WinningScore)).
				AND(table.Matches.ScoreB.LT(sqlite.Int(domain.WinningScore))),
		).
		ORDER_BY(table.Matches.PlayedAt.DESC()).
		LIMIT(1).
		QueryContext(ctx, s.db, &match)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return domain.Match{}, false, nil
		}
		return domain.Match{}, false, fmt.Errorf("current match: %w", err)
	}
	players, err := s.playerMap(ctx)
	if err != nil {
		return domain.Match{}, false, err
	}
	return convertMatchToDomain(match, players), true, nil
}

func (s *Storage) ListMatches(ctx context.Context) ([]domain.Match, error) {
	var matches []model.Matches
	err := table.Matches.
		SELECT(table.Matches.AllColumns).
		FROM(table.Matches).
		ORDER_BY(table.Matches.PlayedAt.ASC(), table.Matches.ID.ASC()).
		QueryContext(ctx, s.db, &matches)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	players, err := s.playerMap(ctx)
	if err != nil {
		return nil, err
	}
	converted := make([]domain.Match, 0, len(matches))
	for _, match := range matches {
		converted = append(converted, convertMatchToDomain(match, players))
	}
	return converted, nil
}

func (s *Storage) UpdateScore(ctx context.Context, matchID int64, scoreA, scoreB int, winnerID int64) (domain.Match, error) {
	res, err := table.Matches.
		UPDATE(table.Matches.ScoreA, table.Matches.ScoreB, table.Matches.Winner).
		SET(
			sqlite.Int(int64(scoreA)),
			sqlite.Int(int64(scoreB)),
			sqlite.Int(winnerID),
		).
		WHERE(table.Matches.ID.EQ(sqlite.Int(matchID))).
		ExecContext(ctx, s.db)
	if err != nil {
		return domain.Match{}, fmt.Errorf("update score: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Match{}, err
	}
	if affected == 0 {
		return domain.Match{}, domain.ErrMatchNotFound
	}
	return s.GetMatch(ctx, matchID)
}

// FinishMatch writes the final score, the winner and both new ratings in a
// single transaction.
func (s *Storage) FinishMatch(ctx context.Context, finish storage.Finish) (domain.Match, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Match{}, fmt.Errorf("finish match: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := table.Matches.
		UPDATE(table.Matches.ScoreA, table.Matches.ScoreB, table.Matches.Winner).
		SET(
			sqlite.Int(int64(finish.ScoreA)),
			sqlite.Int(int64(finish.ScoreB)),
			sqlite.Int(finish.WinnerID),
		).
		WHERE(table.Matches.ID.EQ(sqlite.Int(finish.MatchID))).
		ExecContext(ctx, tx)
	if err != nil {
		return domain.Match{}, fmt.Errorf("finish match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Match{}, err
	}
	if affected == 0 {
		return domain.Match{}, domain.ErrMatchNotFound
	}

	for _, update := range []struct {
		playerID int64
		rating   int
	}{
		{playerID: finish.PlayerAID, rating: finish.NewRatingA},
		{playerID: finish.PlayerBID, rating: finish.NewRatingB},
	} {
		_, err = table.Players.
			UPDATE(table.Players.Elo).
			SET(sqlite.Int(int64(update.rating))).
			WHERE(table.Players.ID.EQ(sqlite.Int(update.playerID))).
			ExecContext(ctx, tx)
		if err != nil {
			return domain.Match{}, fmt.Errorf("finish match: update rating: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Match{}, fmt.Errorf("finish match: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"match_id": finish.MatchID,
		"winner":   finish.WinnerID,
	}).Debug("match finished")
	return s.GetMatch(ctx, finish.MatchID)
}

func (s *Storage) playerMap(ctx context.Context) (map[int64]domain.Player, error) {
	players, err := s.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[int64]domain.Player, len(players))
	for _, player := range players {
		m[player.ID] = player
	}
	return m, nil
}

func isUniqueViolation(err error, needle string) bool {
	var sqliteErr sqlite3driver.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	if sqliteErr.ExtendedCode != sqlite3driver.ErrConstraintUnique {
		return false
	}
	return strings.Contains(sqliteErr.Error(), needle)
}
