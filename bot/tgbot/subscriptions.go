package tgbot

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	botmodel "github.com/lmercier/pongtracker/bot/model"
)

// subscriptions is shared between the bot's update loop and the match
// notification callbacks running on web request goroutines.
type subscriptions struct {
	mu sync.RWMutex
	m  map[botmodel.EventType]mapset.Set[int64]
}

func newSubs() *subscriptions {
	return &subscriptions{
		m: make(map[botmodel.EventType]mapset.Set[int64]),
	}
}

func (s *subscriptions) Add(t botmodel.EventType, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m[t] == nil {
		s.m[t] = mapset.NewSet[int64]()
	}
	s.m[t].Add(userID)
}

func (s *subscriptions) Remove(t botmodel.EventType, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m[t] == nil {
		return
	}
	s.m[t].Remove(userID)
}

func (s *subscriptions) GetUserIDs(t botmodel.EventType) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.m[t] == nil {
		return nil
	}
	return s.m[t].ToSlice()
}
