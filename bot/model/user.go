package model

import "time"

// EventType matches the subscriptions.event_type column.
type EventType int32

const (
	MatchFinished EventType = 1
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

type User struct {
	ID        int64
	FirstName string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time

	Role UserRole

	Subscriptions []EventType
}
