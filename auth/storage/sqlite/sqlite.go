package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lmercier/pongtracker/auth/gen/model"
	"github.com/lmercier/pongtracker/auth/gen/table"
	"github.com/lmercier/pongtracker/auth/storage"
	"github.com/lmercier/pongtracker/auth/users"
	"github.com/lmercier/pongtracker/internal/config"
	sqlite3 "github.com/lmercier/pongtracker/internal/migrate"
)

type Storage struct {
	db  *sql.DB
	log *logrus.Entry
}

var _ storage.AuthStorage = (*Storage)(nil)

func New(l *logrus.Logger, cfg config.Auth) (*Storage, error) {
	log := l.WithField("name", "auth-storage")
	db, err := sql.Open("sqlite3", "file:"+cfg.SqliteFile+"?cache=shared")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	err = sqlite3.UpAuthDB(db)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}
	log.Info("auth storage connected")
	return &Storage{
		db:  db,
		log: log,
	}, nil
}

func (s *Storage) CreateUser(ctx context.Context, user users.User, secret users.Secret) error {
	dbUser := model.Users{
		ID:           user.ID.String(),
		Username:     user.Name,
		PasswordHash: hex.EncodeToString(secret.PasswordHash),
		PasswordSalt: hex.EncodeToString(secret.Salt),
		CreatedAt:    time.Now(),
	}
	_, err := table.Users.
		INSERT(table.Users.AllColumns).
		MODEL(dbUser).
		ExecContext(ctx, s.db)
	if err != nil {
		return err
	}
	for _, role := range user.Roles {
		userRole := model.UserRoles{
			UserID: user.ID.String(),
			RoleID: roleID(role),
		}
		_, err = table.UserRoles.
			INSERT(table.UserRoles.AllColumns).
			MODEL(userRole).
			ExecContext(ctx, s.db)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id uuid.UUID) (users.User, error) {
	var dest struct {
		model.Users
		UserRoles []model.UserRoles
	}
	err := table.Users.
		SELECT(
			table.Users.AllColumns.Except(
				table.Users.PasswordHash,
				table.Users.PasswordSalt,
			),
			table.UserRoles.AllColumns,
		).
		FROM(table.Users.LEFT_JOIN(table.UserRoles, table.UserRoles.UserID.EQ(table.Users.ID))).
		WHERE(table.Users.ID.EQ(sqlite.String(id.String())).
			AND(table.Users.DeletedAt.IS_NULL())).
		QueryContext(ctx, s.db, &dest)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return users.User{}, sql.ErrNoRows
		}
		return users.User{}, err
	}
	return convertUser(dest.Users, dest.UserRoles)
}

func (s *Storage) GetUserSecret(ctx context.Context, user users.User) (users.Secret, error) {
	var where sqlite.BoolExpression
	switch {
	case user.ID != uuid.Nil:
		where = table.Users.ID.EQ(sqlite.String(user.ID.String()))
	case user.Name != "":
		where = table.Users.Username.EQ(sqlite.String(user.Name))
	default:
		return users.Secret{}, errors.New("empty user")
	}

	var dbUser model.Users
	err := table.Users.
		SELECT(
			table.Users.PasswordHash,
			table.Users.PasswordSalt,
		).
		FROM(table.Users).
		WHERE(where).
		QueryContext(ctx, s.db, &dbUser)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return users.Secret{}, sql.ErrNoRows
		}
		return users.Secret{}, err
	}
	hash, err := hex.DecodeString(dbUser.PasswordHash)
	if err != nil {
		return users.Secret{}, err
	}
	salt, err := hex.DecodeString(dbUser.PasswordSalt)
	if err != nil {
		return users.Secret{}, err
	}
	return users.Secret{
		PasswordHash: hash,
		Salt:         salt,
	}, nil
}

func (s *Storage) SignIn(ctx context.Context, name string, passwordHash []byte) (users.User, error) {
	var dest struct {
		model.Users
		UserRoles []model.UserRoles
	}
	err := table.Users.
		SELECT(
			table.Users.AllColumns.Except(
				table.Users.PasswordHash,
				table.Users.PasswordSalt,
			),
			table.UserRoles.AllColumns,
		).
		FROM(table.Users.LEFT_JOIN(table.UserRoles, table.UserRoles.UserID.EQ(table.Users.ID))).
		WHERE(
			table.Users.Username.EQ(sqlite.String(name)).
				AND(table.Users.DeletedAt.IS_NULL()).
				AND(table.Users.PasswordHash.EQ(sqlite.String(hex.EncodeToString(passwordHash)))),
		).
		QueryContext(ctx, s.db, &dest)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return users.User{}, sql.ErrNoRows
		}
		return users.User{}, err
	}
	return convertUser(dest.Users, dest.UserRoles)
}

func convertUser(user model.Users, roles []model.UserRoles) (users.User, error) {
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return users.User{}, err
	}
	u := users.User{
		ID:           id,
		Name:         user.Username,
		Roles:        []string{},
		RegisteredAt: user.CreatedAt,
	}
	for _, role := range roles {
		u.Roles = append(u.Roles, roleName(role.RoleID))
	}
	return u, nil
}

func roleID(role string) int32 {
	switch role {
	case users.RoleAdmin:
		return 1
	default:
		return 2
	}
}

func roleName(id int32) string {
	switch id {
	case 1:
		return users.RoleAdmin
	default:
		return users.RoleUser
	}
}
