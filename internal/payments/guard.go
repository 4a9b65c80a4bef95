package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/redis"
)

const webhookScope = "paystack-webhook"

// ReplayGuard deduplicates webhook deliveries by reference. The database
// conditional update is the real idempotency gate; the guard only spares the
// DB from gateway retry storms, so losing a guard entry is harmless.
type ReplayGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
}

// NewReplayGuard builds a guard over the shared Redis client.
func NewReplayGuard(store redis.IdempotencyStore, ttl time.Duration) (*ReplayGuard, error) {
	if store == nil {
		return nil, fmt.Errorf("idempotency store required")
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &ReplayGuard{store: store, ttl: ttl}, nil
}

// CheckAndMark records the reference and reports whether this delivery is the
// first. Redis being unreachable counts as first so processing proceeds.
func (g *ReplayGuard) CheckAndMark(ctx context.Context, reference string) (bool, error) {
	key := g.store.IdempotencyKey(webhookScope, reference)
	first, err := g.store.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), g.ttl)
	if err != nil {
		return true, fmt.Errorf("mark webhook reference: %w", err)
	}
	return first, nil
}

// Release removes the mark so the gateway's retry can be processed after a
// handler failure.
func (g *ReplayGuard) Release(ctx context.Context, reference string) error {
	return g.store.Del(ctx, g.store.IdempotencyKey(webhookScope, reference))
}
