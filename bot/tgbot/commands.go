package tgbot

import (
	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lmercier/pongtracker/bot/botstorage"
	"github.com/lmercier/pongtracker/bot/model"
	"github.com/lmercier/pongtracker/internal/service"
)

type Command interface {
	Run(user model.User, args string, resp *tgbotapi.MessageConfig) error
	Help() string
	Permission() mapset.Set[model.UserRole]
	Visibility() mapset.Set[model.UserRole]
}

func allRoles() mapset.Set[model.UserRole] {
	return mapset.NewSet[model.UserRole](model.RoleAdmin, model.RoleUser)
}

type Commands struct {
	list map[string]Command
}

func NewCommands(
	ps *service.PlayerService,
	bs botstorage.BotStorage,
	subFn func(id int64),
	unsubFn func(id int64),
) *Commands {
	hc := &HelpCommand{}
	uc := Commands{
		list: map[string]Command{
			"help":  hc,
			"start": hc,
			"top": &TopCommand{
				playerService: ps,
			},
			"week": &WeekCommand{
				playerService: ps,
			},
			"info": &InfoCommand{
				playerService: ps,
			},
			"sub": &SubCommand{
				botStorage: bs,
				sub:        subFn,
			},
			"unsub": &UnsubCommand{
				botStorage: bs,
				unsub:      unsubFn,
			},
		},
	}
	hc.commands = uc.list
	return &uc
}

func (uc *Commands) RunCommand(user model.User, msg *tgbotapi.Message, resp *tgbotapi.MessageConfig) error {
	command, ok := uc.list[msg.Command()]
	if !ok {
		return ErrBadRequest
	}
	if !command.Permission().Contains(user.Role) {
		return ErrBadRequest
	}
	return command.Run(user, msg.CommandArguments(), resp)
}
