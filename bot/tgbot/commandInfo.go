package tgbot

import (
	"context"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lmercier/pongtracker/bot/model"
	"github.com/lmercier/pongtracker/internal/service"
)

type InfoCommand struct {
	playerService *service.PlayerService
}

func (c *InfoCommand) Run(_ model.User, _ string, resp *tgbotapi.MessageConfig) error {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	ctx := context.Background()
	total, err := c.playerService.TotalMatches(ctx)
	if err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Matches played: %d\n", total)
	if match, ok, err := c.playerService.CurrentMatch(ctx); err != nil {
		return err
	} else if ok {
		fmt.Fprintf(&b, "Now playing: %s %d:%d %s\n",
			match.PlayerA.Name, match.ScoreA, match.ScoreB, match.PlayerB.Name)
	}
	if monthly, ok, err := c.playerService.PlayerOfMonth(ctx); err != nil {
		return err
	} else if ok {
		fmt.Fprintf(&b, "Player of the month: %s (%d wins)\n", monthly.Player.Name, monthly.Wins)
	}
	resp.Text = b.String()
	return nil
}

func (c *InfoCommand) Help() string {
	return "Shows club statistics"
}

func (c *InfoCommand) Permission() mapset.Set[model.UserRole] {
	return allRoles()
}

func (c *InfoCommand) Visibility() mapset.Set[model.UserRole] {
	return allRoles()
}
