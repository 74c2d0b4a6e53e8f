package player

import "sync"

// Registry is the process-wide map from guild ID to its Player. The map has
// its own lock, separate from each entry's mutex, so creating a player for
// one guild never blocks transitions on another.
type Registry struct {
	mu          sync.RWMutex
	players     map[string]*Player
	node        AudioNode
	recommender Recommender
}

// NewRegistry creates an empty registry whose players share the given
// collaborators.
func NewRegistry(node AudioNode, recommender Recommender) *Registry {
	return &Registry{
		players:     make(map[string]*Player),
		node:        node,
		recommender: recommender,
	}
}

// GetOrCreate returns the guild's player, creating an idle one if absent.
func (r *Registry) GetOrCreate(guildID string) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.players[guildID]; ok {
		return p
	}
	p := New(guildID, r.node, r.recommender)
	r.players[guildID] = p
	return p
}

// Get returns the guild's player, or nil when none exists.
func (r *Registry) Get(guildID string) *Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.players[guildID]
}

// Remove evicts the guild's player. Callers run Leave on the player first.
func (r *Registry) Remove(guildID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, guildID)
}

// GuildIDs returns the guilds that currently have a player.
func (r *Registry) GuildIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of live players.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
