package domain

import "errors"

var (
	ErrMissingPlayer         = errors.New("both players are required and must be different")
	ErrPlayerNotFound        = errors.New("player not found")
	ErrPlayerExists          = errors.New("a player with this name already exists")
	ErrEmptyPlayerName       = errors.New("player name must not be empty")
	ErrMatchInProgressExists = errors.New("a match is already in progress")
	ErrInvalidScore          = errors.New("invalid score")
	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchAlreadyFinished  = errors.New("this match is already finished")
)
