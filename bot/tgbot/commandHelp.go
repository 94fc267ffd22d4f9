package tgbot

import (
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lmercier/pongtracker/bot/model"
)

type HelpCommand struct {
	commands map[string]Command
}

func (c *HelpCommand) Run(user model.User, args string, resp *tgbotapi.MessageConfig) error {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	for name, command := range c.commands {
		if !command.Visibility().Contains(user.Role) {
			continue
		}
		if args == name {
			resp.Text = command.Help()
			return nil
		}
	}
	names := make([]string, 0, len(c.commands))
	for name, command := range c.commands {
		if !command.Visibility().Contains(user.Role) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, name := range names {
		b.WriteString("/")
		b.WriteString(name)
		b.WriteString("\n")
	}
	b.WriteString("Use /help <command> for details")
	resp.Text = b.String()
	return nil
}

func (c *HelpCommand) Help() string {
	return "Lists the available commands"
}

func (c *HelpCommand) Permission() mapset.Set[model.UserRole] {
	return allRoles()
}

func (c *HelpCommand) Visibility() mapset.Set[model.UserRole] {
	return allRoles()
}
