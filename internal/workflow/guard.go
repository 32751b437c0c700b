package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kamau/expensa/model"
)

// TransitionGuard enforces at most one in-flight state transition per
// record. A second invocation before the first releases fails with a
// CONFLICT error instead of queueing.
type TransitionGuard interface {
	// Acquire claims the record. On success it returns a release function
	// that must be called once the transition completes, successfully or
	// not.
	Acquire(ctx context.Context, recordID string) (release func(), err error)
}

// --- MemoryTransitionGuard ---

// MemoryTransitionGuard is an in-process TransitionGuard. Suitable for
// testing and single-instance deployments.
type MemoryTransitionGuard struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewMemoryTransitionGuard creates a new in-memory transition guard.
func NewMemoryTransitionGuard() *MemoryTransitionGuard {
	return &MemoryTransitionGuard{held: make(map[string]bool)}
}

// Acquire claims the record or returns a CONFLICT error if a transition is
// already in flight.
func (g *MemoryTransitionGuard) Acquire(_ context.Context, recordID string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.held[recordID] {
		return nil, model.NewConflictError(
			fmt.Sprintf("a transition is already in flight for record %q", recordID),
		)
	}
	g.held[recordID] = true

	var once sync.Once
	release := func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, recordID)
			g.mu.Unlock()
		})
	}
	return release, nil
}

// Len returns the number of held records. For testing.
func (g *MemoryTransitionGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.held)
}

// --- RedisTransitionGuard ---

// RedisTransitionGuard is a Redis-backed TransitionGuard for deployments
// with more than one instance. The TTL bounds how long a crashed instance
// can leave a record locked.
type RedisTransitionGuard struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisTransitionGuard creates a Redis-backed transition guard.
func NewRedisTransitionGuard(client redis.Cmdable, ttl time.Duration) *RedisTransitionGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisTransitionGuard{client: client, ttl: ttl}
}

// Acquire claims the record via SET NX or returns a CONFLICT error.
func (g *RedisTransitionGuard) Acquire(ctx context.Context, recordID string) (func(), error) {
	key := FormatGuardKey(recordID)

	set, err := g.client.SetNX(ctx, key, "1", g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx %q: %w", key, err)
	}
	if !set {
		return nil, model.NewConflictError(
			fmt.Sprintf("a transition is already in flight for record %q", recordID),
		)
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			_ = g.client.Del(context.Background(), key).Err()
		})
	}
	return release, nil
}

// FormatGuardKey builds the standard guard key.
func FormatGuardKey(recordID string) string {
	return fmt.Sprintf("transition:%s", recordID)
}
