package mem

import (
	"sync"

	"github.com/lmercier/pongtracker/internal/domain"
	"github.com/lmercier/pongtracker/internal/normalize"
)

// Cache keeps players indexed by normalized name for form and bot lookups.
// It is rebuilt wholesale from storage; a miss while invalid means "reload".
type Cache struct {
	mu      sync.RWMutex
	valid   bool
	players map[string]domain.Player
}

func New() *Cache {
	return &Cache{
		players: make(map[string]domain.Player),
	}
}

func (c *Cache) Update(players []domain.Player) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.players = make(map[string]domain.Player)
	for i := range players {
		name := normalize.Name(players[i].Name)
		c.players[name] = players[i]
	}
	c.valid = true
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = false
}

func (c *Cache) GetPlayerByName(name string) (domain.Player, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid {
		return domain.Player{}, false
	}
	player, ok := c.players[normalize.Name(name)]
	if !ok {
		return domain.Player{}, false
	}
	return player, true
}
