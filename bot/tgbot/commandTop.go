package tgbot

import (
	"context"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lmercier/pongtracker/bot/model"
	"github.com/lmercier/pongtracker/internal/service"
)

type TopCommand struct {
	playerService *service.PlayerService
}

func (c *TopCommand) Run(_ model.User, _ string, resp *tgbotapi.MessageConfig) error {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	ratings, err := c.playerService.GetRatings(context.Background())
	if err != nil {
		return err
	}
	var buffer strings.Builder
	for i := range ratings {
		if i > 9 {
			break
		}
		buffer.WriteString(strconv.Itoa(ratings[i].RatingRank))
		buffer.WriteString(". ")
		buffer.WriteString(ratings[i].Name)
		buffer.WriteString(" (")
		buffer.WriteString(strconv.Itoa(ratings[i].EloRating))
		buffer.WriteString(")\n")
	}
	resp.Text = buffer.String()
	return nil
}

func (c *TopCommand) Help() string {
	return "Shows the top of the rating"
}

func (c *TopCommand) Permission() mapset.Set[model.UserRole] {
	return allRoles()
}

func (c *TopCommand) Visibility() mapset.Set[model.UserRole] {
	return allRoles()
}
