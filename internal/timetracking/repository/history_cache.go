package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
)

const (
	historyKeyPrefix    = "timetrack:history:"     // timetrack:history:{owner}:{generation}:{offset}:{days}:{utc_date}
	historyGenKeyPrefix = "timetrack:history-gen:" // per-owner generation counter
	DefaultHistoryTTL   = 5 * time.Minute

	minGenerationTTL = 24 * time.Hour
)

// HistoryCache stores history results in Redis. Keys carry the owner's
// generation and the UTC date; Invalidate bumps the generation, so older
// results are never read again and simply expire.
type HistoryCache struct {
	client *redis.Client
	ttl    time.Duration
	genTTL time.Duration
}

func NewHistoryCache(client *redis.Client, ttl time.Duration) *HistoryCache {
	if ttl <= 0 {
		ttl = DefaultHistoryTTL
	}
	// the counter must outlive every result written under it
	genTTL := 2 * ttl
	if genTTL < minGenerationTTL {
		genTTL = minGenerationTTL
	}
	return &HistoryCache{client: client, ttl: ttl, genTTL: genTTL}
}

// Generation returns the owner's current cache generation, 0 if none is stored.
func (c *HistoryCache) Generation(ctx context.Context, ownerID int64) (int64, error) {
	gen, err := c.client.Get(ctx, historyGenKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get history generation: %w", err)
	}
	return gen, nil
}

// Get returns the cached history and whether it was present.
func (c *HistoryCache) Get(ctx context.Context, key domain.HistoryKey) ([]domain.DaySummary, bool, error) {
	data, err := c.client.Get(ctx, historyKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get history: %w", err)
	}

	var items []domain.DaySummary
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	return items, true, nil
}

func (c *HistoryCache) Set(ctx context.Context, key domain.HistoryKey, items []domain.DaySummary) error {
	if items == nil {
		items = []domain.DaySummary{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := c.client.Set(ctx, historyKey(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store history: %w", err)
	}
	return nil
}

// Invalidate moves the owner to a new generation. Results stored under the
// previous one stay until their TTL but are no longer addressed.
func (c *HistoryCache) Invalidate(ctx context.Context, ownerID int64) error {
	genKey := historyGenKey(ownerID)

	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, genKey)
	pipe.Expire(ctx, genKey, c.genTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate history: %w", err)
	}
	return nil
}

func historyKey(k domain.HistoryKey) string {
	return fmt.Sprintf("%s%d:%d:%d:%d:%s", historyKeyPrefix, k.OwnerID, k.Generation, k.OffsetMinutes, k.Days, k.UTCDay)
}

func historyGenKey(ownerID int64) string {
	return fmt.Sprintf("%s%d", historyGenKeyPrefix, ownerID)
}
