package game

import (
	"context"
	"math/rand"
	"sync"

	"github.com/sopra-fs21-group-4/sopra-server/domain"
)

// Game ids are random positive integers in a 40-bit range, the same
// value space the summary store keys on. A dead game's id must never be
// reused, so allocation redraws on collision against both the live map
// and the store.
const gameIdBits = 40

type SummaryChecker interface {
	SummaryExists(ctx context.Context, gameId int64) (bool, error)
}

// Registry is the process-wide arena of live games. Its lock is held
// only for the brief insert/lookup/remove operations, never across a
// game command, so it does not contend with gameplay.
type Registry struct {
	mu      sync.RWMutex
	games   map[int64]*Game
	checker SummaryChecker
}

func NewRegistry(checker SummaryChecker) *Registry {
	return &Registry{
		games:   make(map[int64]*Game),
		checker: checker,
	}
}

func (r *Registry) Create(ctx context.Context, master domain.User, chatId string, settings Settings) (*Game, error) {
	for {
		id := rand.Int63n(1<<gameIdBits-1) + 1

		// The store check is I/O; done before taking the registry lock.
		exists, err := r.checker.SummaryExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		r.mu.Lock()
		if _, taken := r.games[id]; taken {
			r.mu.Unlock()
			continue
		}
		g := NewGame(id, chatId, master, settings)
		r.games[id] = g
		r.mu.Unlock()
		return g, nil
	}
}

func (r *Registry) Lookup(gameId int64) (*Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[gameId]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// Remove is called by the scheduler once a game reports Dead.
func (r *Registry) Remove(gameId int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, gameId)
}

// Games returns a snapshot of the live games so callers iterate without
// holding the registry lock.
func (r *Registry) Games() []*Game {
	r.mu.RLock()
	defer r.mu.RUnlock()
	games := make([]*Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	return games
}
