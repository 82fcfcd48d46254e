package app

import (
	"errors"
	"fmt"
	"sync"
)

// ErrGameAlreadyRunning is returned when a channel already hosts a game
var ErrGameAlreadyRunning = errors.New("a game is already running in this channel")

// Registry tracks the active game per (guild, channel). At most one game may
// occupy a slot at any time.
type Registry struct {
	mu    sync.Mutex
	games map[string]*Game
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{games: make(map[string]*Game)}
}

func registryKey(guildID, channelID string) string {
	return fmt.Sprintf("%s:%s", guildID, channelID)
}

// Get returns the active game for the channel, or nil
func (r *Registry) Get(guildID, channelID string) *Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.games[registryKey(guildID, channelID)]
}

// Start atomically checks the slot and inserts the game built by factory.
// The factory must not block or touch Discord; it runs inside the lock so
// two concurrent starts can never race into the same channel.
func (r *Registry) Start(guildID, channelID string, factory func() *Game) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := registryKey(guildID, channelID)
	if _, exists := r.games[key]; exists {
		return nil, ErrGameAlreadyRunning
	}

	game := factory()
	r.games[key] = game
	return game, nil
}

// Remove clears the slot for the channel
func (r *Registry) Remove(guildID, channelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, registryKey(guildID, channelID))
}

// Active returns a snapshot of all active games
func (r *Registry) Active() []*Game {
	r.mu.Lock()
	defer r.mu.Unlock()

	games := make([]*Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	return games
}

// Count returns the number of active games
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games)
}
