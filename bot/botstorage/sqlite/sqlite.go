package sqlite

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	"github.com/sirupsen/logrus"

	"github.com/lmercier/pongtracker/bot/botstorage"
	dbmodel "github.com/lmercier/pongtracker/bot/gen/model"
	"github.com/lmercier/pongtracker/bot/gen/table"
	"github.com/lmercier/pongtracker/bot/model"
	"github.com/lmercier/pongtracker/internal/config"
	sqlite3 "github.com/lmercier/pongtracker/internal/migrate"
)

type Storage struct {
	db  *sql.DB
	log *logrus.Entry
}

var _ botstorage.BotStorage = (*Storage)(nil)

func New(l *logrus.Logger, cfg config.TgBot) (*Storage, error) {
	log := l.WithField("name", "bot-storage")
	db, err := sql.Open("sqlite3", "file:"+cfg.SqliteFile+"?cache=shared")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	err = sqlite3.UpBotDB(db)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}
	log.Info("bot storage connected")
	return &Storage{
		db:  db,
		log: log,
	}, nil
}

func (s *Storage) NewUser(user model.User) (model.User, error) {
	var dbUser dbmodel.Users
	err := table.Users.
		INSERT(table.Users.AllColumns).
		MODEL(convertUserFromDomain(user)).
		RETURNING(table.Users.AllColumns).
		Query(s.db, &dbUser)
	if err != nil {
		return model.User{}, err
	}
	return convertUserToDomain(dbUser, nil), nil
}

type getUserModel struct {
	dbmodel.Users
	Subscriptions []dbmodel.Subscriptions
}

func (s *Storage) GetUser(id int64) (model.User, error) {
	var dest getUserModel
	err := table.Users.
		SELECT(table.Users.AllColumns, table.Subscriptions.AllColumns).
		FROM(table.Users.
			LEFT_JOIN(table.Subscriptions, table.Subscriptions.UserID.EQ(table.Users.ID)),
		).
		WHERE(table.Users.ID.EQ(sqlite.Int(id))).
		Query(s.db, &dest)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return model.User{}, sql.ErrNoRows
		}
		return model.User{}, err
	}
	return convertUserToDomain(dest.Users, dest.Subscriptions), nil
}

func (s *Storage) ListUsers() ([]model.User, error) {
	var dest []getUserModel
	err := table.Users.
		SELECT(table.Users.AllColumns, table.Subscriptions.AllColumns).
		FROM(table.Users.
			LEFT_JOIN(table.Subscriptions, table.Subscriptions.UserID.EQ(table.Users.ID)),
		).
		Query(s.db, &dest)
	if err != nil {
		return nil, err
	}
	converted := make([]model.User, 0, len(dest))
	for i := range dest {
		converted = append(converted, convertUserToDomain(dest[i].Users, dest[i].Subscriptions))
	}
	return converted, nil
}

func (s *Storage) Log(user model.User, msg string) error {
	message := dbmodel.MessageLog{
		UserID:    int32(user.ID),
		Message:   msg,
		CreatedAt: time.Now(),
	}
	_, err := table.MessageLog.
		INSERT(table.MessageLog.UserID, table.MessageLog.Message, table.MessageLog.CreatedAt).
		MODEL(message).
		Exec(s.db)
	return err
}

func (s *Storage) Subscribe(user model.User, event model.EventType) error {
	sub := dbmodel.Subscriptions{
		UserID:    int32(user.ID),
		EventType: int32(event),
	}
	_, err := table.Subscriptions.
		INSERT(table.Subscriptions.AllColumns).
		MODEL(sub).
		Exec(s.db)
	if err != nil {
		if strings.HasPrefix(err.Error(), "UNIQUE constraint failed") {
			return nil
		}
		return err
	}
	return nil
}

func (s *Storage) Unsubscribe(user model.User, event model.EventType) error {
	_, err := table.Subscriptions.
		DELETE().
		WHERE(
			table.Subscriptions.UserID.EQ(sqlite.Int(user.ID)).
				AND(table.Subscriptions.EventType.EQ(sqlite.Int32(int32(event)))),
		).Exec(s.db)
	return err
}

func convertUserFromDomain(user model.User) dbmodel.Users {
	role := user.Role
	if role == "" {
		role = model.RoleUser
	}
	return dbmodel.Users{
		ID:        int32(user.ID),
		FirstName: user.FirstName,
		Username:  user.Username,
		Role:      string(role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func convertUserToDomain(user dbmodel.Users, subs []dbmodel.Subscriptions) model.User {
	converted := model.User{
		ID:        int64(user.ID),
		FirstName: user.FirstName,
		Username:  user.Username,
		Role:      model.UserRole(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	for i := range subs {
		converted.Subscriptions = append(converted.Subscriptions, model.EventType(subs[i].EventType))
	}
	return converted
}
