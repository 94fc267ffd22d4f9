package tgbot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/lmercier/pongtracker/bot/botstorage"
	botmodel "github.com/lmercier/pongtracker/bot/model"
	"github.com/lmercier/pongtracker/internal/config"
	"github.com/lmercier/pongtracker/internal/domain"
	"github.com/lmercier/pongtracker/internal/service"
)

type Bot struct {
	bot *tgbotapi.BotAPI

	botStorage botstorage.BotStorage
	log        *logrus.Entry

	// cancel func to stop the bot
	cancel func()

	subs *subscriptions

	commands *Commands
}

var ErrBadRequest = errors.New("unknown command, try /help")

func New(ps *service.PlayerService, bs botstorage.BotStorage, cfg config.Config, log *logrus.Logger) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TgBot.TelegramApiToken)
	if err != nil {
		return nil, fmt.Errorf("env TELEGRAM_APITOKEN: %w", err)
	}

	bot.Debug = cfg.Server.Debug
	_, err = bot.GetMe()
	if err != nil {
		return nil, err
	}
	subs := newSubs()
	users, err := bs.ListUsers()
	if err != nil {
		return nil, err
	}
	for i := range users {
		for _, subType := range users[i].Subscriptions {
			subs.Add(subType, users[i].ID)
		}
	}

	b := Bot{
		bot:        bot,
		botStorage: bs,
		log:        log.WithField("name", "tg-bot"),
		subs:       subs,
	}

	b.commands = NewCommands(
		ps,
		bs,
		func(id int64) {
			b.subs.Add(botmodel.MatchFinished, id)
		},
		func(id int64) {
			b.subs.Remove(botmodel.MatchFinished, id)
		},
	)

	return &b, nil
}

func (b *Bot) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			b.handleMessage(update)
		}
	}
}

func (b *Bot) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
}

func (b *Bot) handleMessage(update tgbotapi.Update) {
	if update.Message == nil { // ignore any non-Message updates
		return
	}
	tgUser := update.SentFrom()
	if tgUser == nil {
		return
	}
	log := b.log.WithFields(logrus.Fields{
		"user_id": tgUser.ID,
		"text":    update.Message.Text,
	})
	user, err := b.botStorage.GetUser(tgUser.ID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.WithError(err).Error("unable to get user from db")
			return
		}
		user, err = b.botStorage.NewUser(botmodel.User{
			ID:        tgUser.ID,
			FirstName: tgUser.FirstName,
			Username:  tgUser.UserName,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
		if err != nil {
			log.WithError(err).Error("unable to create user")
			return
		}
	}

	err = b.botStorage.Log(user, update.Message.Text)
	if err != nil {
		log.WithError(err).Error("unable to log message")
	}

	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	err = b.commands.RunCommand(user, update.Message, &msg)
	if err != nil {
		msg.Text = err.Error()
	}
	if _, err := b.bot.Send(msg); err != nil {
		log.WithError(err).Error("send error")
	}
}

// NotifyMatchFinished fans a finished match out to every subscriber. Wire it
// to the player service with OnMatchFinished.
func (b *Bot) NotifyMatchFinished(match domain.Match) {
	text := fmt.Sprintf(
		"%s %d:%d %s. %s wins!",
		match.PlayerA.Name,
		match.ScoreA,
		match.ScoreB,
		match.PlayerB.Name,
		match.Winner.Name,
	)
	for _, userID := range b.subs.GetUserIDs(botmodel.MatchFinished) {
		msg := tgbotapi.NewMessage(userID, text)
		if _, err := b.bot.Send(msg); err != nil {
			b.log.WithError(err).Error("notify error")
		}
	}
}
