// Package cache keeps the joined ticket list in Redis so repeated dashboard
// loads do not hit Postgres. Creating a ticket invalidates the entry.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/support-desk/internal/domain"
)

// ticketListKey namespaces the cached list in Redis.
const ticketListKey = "supportdesk:tickets:list"

// TicketListCache stores the full ticket list under a generation-scoped key.
// Invalidate bumps the generation, so a list read that started before the
// bump writes to a key nobody reads any more.
type TicketListCache struct {
	rdb *redis.Client
	ttl time.Duration
	key string
}

// NewTicketListCache creates a cache backed by rdb. Entries expire after ttl.
func NewTicketListCache(rdb *redis.Client, ttl time.Duration) *TicketListCache {
	return &TicketListCache{rdb: rdb, ttl: ttl, key: ticketListKey}
}

func (c *TicketListCache) generationKey() string {
	return c.key + ":gen"
}

func (c *TicketListCache) listKey(generation int64) string {
	return c.key + ":" + strconv.FormatInt(generation, 10)
}

// Get returns the cached list for the current generation. On a miss the
// generation is still returned; pass it to Set after loading from the store.
func (c *TicketListCache) Get(ctx context.Context) ([]domain.TicketRecord, int64, bool, error) {
	generation, err := c.rdb.Get(ctx, c.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, fmt.Errorf("ticket cache generation: %w", err)
	}

	raw, err := c.rdb.Get(ctx, c.listKey(generation)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, generation, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("ticket cache GET: %w", err)
	}

	var records []domain.TicketRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, generation, false, fmt.Errorf("ticket cache decode: %w", err)
	}
	return records, generation, true, nil
}

// Set stores records under generation. A generation that has since been
// invalidated is written to a dead key and never served.
func (c *TicketListCache) Set(ctx context.Context, generation int64, records []domain.TicketRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("ticket cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, c.listKey(generation), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("ticket cache SET: %w", err)
	}
	return nil
}

// Invalidate starts a new generation and drops the previous list.
func (c *TicketListCache) Invalidate(ctx context.Context) error {
	generation, err := c.rdb.Incr(ctx, c.generationKey()).Result()
	if err != nil {
		return fmt.Errorf("ticket cache INCR: %w", err)
	}
	if err := c.rdb.Del(ctx, c.listKey(generation-1)).Err(); err != nil {
		return fmt.Errorf("ticket cache DEL: %w", err)
	}
	return nil
}
