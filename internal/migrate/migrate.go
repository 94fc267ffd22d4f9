package sqlite3

import (
	"database/sql"
	"errors"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	embedded "github.com/lmercier/pongtracker"
)

// UpServerDB applies the players/matches schema.
func UpServerDB(db *sql.DB) error {
	return up(db, embedded.ServerMigrations, "migrations", "rating")
}

// UpAuthDB applies the users/roles schema.
func UpAuthDB(db *sql.DB) error {
	return up(db, embedded.AuthMigrations, "auth/migrations", "auth")
}

// UpBotDB applies the telegram bot schema.
func UpBotDB(db *sql.DB) error {
	return up(db, embedded.BotMigrations, "bot/migrations", "bot")
}

func up(db *sql.DB, migrations fs.FS, path string, name string) error {
	sourceDriver, err := iofs.New(migrations, path)
	if err != nil {
		return err
	}
	databaseDriver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, name, databaseDriver)
	if err != nil {
		return err
	}
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
