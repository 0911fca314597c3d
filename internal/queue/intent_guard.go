package queue

import (
	"context"
	"sync"
	"time"
)

// IntentGuard remembers which notification intents were already delivered so
// a retried or duplicated intent reaches users at most once.
type IntentGuard interface {
	// Claim reports true the first time key is seen within the guard's TTL.
	Claim(ctx context.Context, key string) (bool, error)
}

type MemoryIntentGuard struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	seen map[string]time.Time
}

func NewMemoryIntentGuard(ttl time.Duration) *MemoryIntentGuard {
	return &MemoryIntentGuard{
		ttl:  ttl,
		now:  time.Now,
		seen: make(map[string]time.Time),
	}
}

func (g *MemoryIntentGuard) Claim(ctx context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, expires := range g.seen {
		if !now.Before(expires) {
			delete(g.seen, k)
		}
	}

	if _, ok := g.seen[key]; ok {
		return false, nil
	}
	g.seen[key] = now.Add(g.ttl)
	return true, nil
}
