package tgbot

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lmercier/pongtracker/bot/model"
	"github.com/lmercier/pongtracker/internal/service"
)

type WeekCommand struct {
	playerService *service.PlayerService
}

func (c *WeekCommand) Run(_ model.User, _ string, resp *tgbotapi.MessageConfig) error {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	winner, ok, err := c.playerService.PlayerOfWeek(context.Background())
	if err != nil {
		return err
	}
	if !ok {
		resp.Text = "No winner yet this week"
		return nil
	}
	resp.Text = fmt.Sprintf("Player of the week: %s with %d wins", winner.Player.Name, winner.Wins)
	return nil
}

func (c *WeekCommand) Help() string {
	return "Shows the player with the most wins this week"
}

func (c *WeekCommand) Permission() mapset.Set[model.UserRole] {
	return allRoles()
}

func (c *WeekCommand) Visibility() mapset.Set[model.UserRole] {
	return allRoles()
}
