package botstorage

import "github.com/lmercier/pongtracker/bot/model"

type BotStorage interface {
	NewUser(user model.User) (model.User, error)
	GetUser(id int64) (model.User, error)
	ListUsers() ([]model.User, error)
	Log(user model.User, msg string) error
	Subscribe(user model.User, event model.EventType) error
	Unsubscribe(user model.User, event model.EventType) error
}
