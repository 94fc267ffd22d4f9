package tgbot

import (
	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lmercier/pongtracker/bot/botstorage"
	"github.com/lmercier/pongtracker/bot/model"
)

type UnsubCommand struct {
	botStorage botstorage.BotStorage
	unsub      func(int64)
}

func (c *UnsubCommand) Run(user model.User, _ string, resp *tgbotapi.MessageConfig) error {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	err := c.botStorage.Unsubscribe(user, model.MatchFinished)
	if err != nil {
		return err
	}
	c.unsub(user.ID)
	resp.Text = "Unsubscribed from match results"
	return nil
}

func (c *UnsubCommand) Help() string {
	return "Unsubscribes from finished match notifications"
}

func (c *UnsubCommand) Permission() mapset.Set[model.UserRole] {
	return allRoles()
}

func (c *UnsubCommand) Visibility() mapset.Set[model.UserRole] {
	return allRoles()
}
