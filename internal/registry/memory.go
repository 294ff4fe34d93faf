package registry

import (
	"context"
	"sync"
	"time"

	"github.com/ajling/tokenward/internal/model"
)

// InMemory is a process-lifetime TokenRegistry backed by a mutex-guarded
// map. Each operation holds the lock for its full duration, so no caller
// ever observes a partially updated registry.
type InMemory struct {
	mu     sync.RWMutex
	tokens map[string]model.TokenClaims
}

func New() *InMemory {
	return &InMemory{
		tokens: make(map[string]model.TokenClaims),
	}
}

func (r *InMemory) Add(_ context.Context, claims model.TokenClaims) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[claims.ID]; exists {
		return model.ErrDuplicateTokenID
	}
	r.tokens[claims.ID] = claims
	return nil
}

func (r *InMemory) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, id)
	return nil
}

// FindLive treats a present-but-expired entry as absent; the sweeper may
// not have reached it yet.
func (r *InMemory) FindLive(_ context.Context, id string) (model.TokenClaims, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	claims, ok := r.tokens[id]
	if !ok || !claims.ExpiresAt.After(time.Now()) {
		return model.TokenClaims{}, model.ErrTokenNotFound
	}
	return claims, nil
}

func (r *InMemory) SweepExpired(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, claims := range r.tokens {
		if !claims.ExpiresAt.After(now) {
			delete(r.tokens, id)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of entries currently held, expired or not.
func (r *InMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tokens)
}
