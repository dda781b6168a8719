package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// CheckoutGuard remembers idempotency keys so a retried checkout does not place a second order.
type CheckoutGuard struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCheckoutGuard(client *redis.Client, ttl time.Duration) *CheckoutGuard {
	return &CheckoutGuard{Client: client, TTL: ttl}
}

func (g *CheckoutGuard) CheckoutMarkerKey(sessionID, idempotencyKey string) string {
	return "checkout:" + sessionID + ":" + idempotencyKey
}

// Claim sets the marker and reports whether this call was the first to do so.
func (g *CheckoutGuard) Claim(ctx context.Context, key string) (bool, error) {
	return g.Client.SetNX(ctx, key, "1", g.TTL).Result()
}

// Release drops the marker so the same key can be retried.
func (g *CheckoutGuard) Release(ctx context.Context, key string) error {
	return g.Client.Del(ctx, key).Err()
}

func (g *CheckoutGuard) Exists(ctx context.Context, key string) (bool, error) {
	res, err := g.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return res > 0, nil
}
