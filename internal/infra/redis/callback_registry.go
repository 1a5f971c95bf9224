// File: internal/infra/redis/callback_registry.go
package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"esim-myanmar-api/internal/domain/ports/repository"
)

var _ repository.CallbackRegistry = (*CallbackRegistry)(nil)

// CallbackRegistry deduplicates gateway callback deliveries with a SetNX
// marker per (transaction id, status). The marker expires with the TTL, so a
// very late redelivery is processed again; the store mutations behind it are
// idempotent, which makes that safe.
type CallbackRegistry struct {
	cli *redis.Client
}

func NewCallbackRegistry(c *Client) *CallbackRegistry {
	return &CallbackRegistry{cli: c.cli}
}

func (r *CallbackRegistry) FirstDelivery(ctx context.Context, transactionID, status string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	key := "callback:seen:" + transactionID + ":" + status
	return r.cli.SetNX(ctx, key, 1, ttl).Result()
}
