package tgbot

import (
	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lmercier/pongtracker/bot/botstorage"
	"github.com/lmercier/pongtracker/bot/model"
)

type SubCommand struct {
	botStorage botstorage.BotStorage
	sub        func(int64)
}

func (c *SubCommand) Run(user model.User, _ string, resp *tgbotapi.MessageConfig) error {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	err := c.botStorage.Subscribe(user, model.MatchFinished)
	if err != nil {
		return err
	}
	c.sub(user.ID)
	resp.Text = "Subscribed to match results, /unsub to stop"
	return nil
}

func (c *SubCommand) Help() string {
	return "Subscribes to finished match notifications"
}

func (c *SubCommand) Permission() mapset.Set[model.UserRole] {
	return allRoles()
}

func (c *SubCommand) Visibility() mapset.Set[model.UserRole] {
	return allRoles()
}
