package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	authservice "github.com/lmercier/pongtracker/auth/service"
	authsqlite "github.com/lmercier/pongtracker/auth/storage/sqlite"
	botsqlite "github.com/lmercier/pongtracker/bot/botstorage/sqlite"
	"github.com/lmercier/pongtracker/bot/tgbot"
	"github.com/lmercier/pongtracker/internal/config"
	"github.com/lmercier/pongtracker/internal/logger"
	"github.com/lmercier/pongtracker/internal/service"
	"github.com/lmercier/pongtracker/internal/storage/sqlite"
	"github.com/lmercier/pongtracker/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run() error {
	serverConfigPath := flag.String("server-config", "configs/server.toml", "path to the server config")
	botConfigPath := flag.String("bot-config", "configs/bot.toml", "path to the bot config")
	flag.Parse()

	cfg, err := config.NewFromFiles(*serverConfigPath, *botConfigPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Server.Debug)

	storage, err := sqlite.New(log, cfg.Server)
	if err != nil {
		return err
	}
	playerService := service.New(log, storage, storage)

	authStorage, err := authsqlite.New(log, cfg.Auth)
	if err != nil {
		return err
	}
	authService, err := authservice.New(context.Background(), cfg.Auth, authStorage)
	if err != nil {
		return err
	}

	if cfg.Server.TgBotEnabled {
		botStorage, err := botsqlite.New(log, cfg.TgBot)
		if err != nil {
			return err
		}
		bot, err := tgbot.New(playerService, botStorage, cfg, log)
		if err != nil {
			return err
		}
		playerService.OnMatchFinished(bot.NotifyMatchFinished)
		go bot.Run()
		defer bot.Stop()
	}

	server, err := web.New(playerService, cfg.Server, authService)
	if err != nil {
		return err
	}
	return server.Serve()
}
