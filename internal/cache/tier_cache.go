package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/caninecompass/k9-backend/internal/catalog"
	"github.com/caninecompass/k9-backend/internal/platform/logger"
)

// TierCache memoizes per-subject tier results in Redis. A nil cache (no
// REDIS_ADDR configured) is valid and skips every operation, so callers never
// branch on availability.
type TierCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewTierCache(rdb *redis.Client, ttl time.Duration, baseLog *logger.Logger) *TierCache {
	if rdb == nil {
		return nil
	}
	return &TierCache{rdb: rdb, ttl: ttl, log: baseLog.With("cache", "TierCache")}
}

func tierKey(subjectID uuid.UUID) string {
	return "k9:tier:" + subjectID.String()
}

func (c *TierCache) Get(ctx context.Context, subjectID uuid.UUID) (*catalog.TierResult, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, tierKey(subjectID)).Bytes()
	if err != nil {
		return nil, false
	}
	var res catalog.TierResult
	if err := json.Unmarshal(raw, &res); err != nil {
		c.log.Warn("Dropping undecodable tier cache entry", "subject_id", subjectID, "error", err)
		_ = c.rdb.Del(ctx, tierKey(subjectID)).Err()
		return nil, false
	}
	return &res, true
}

func (c *TierCache) Set(ctx context.Context, subjectID uuid.UUID, res *catalog.TierResult) {
	if c == nil || res == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, tierKey(subjectID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Failed to write tier cache entry", "subject_id", subjectID, "error", err)
	}
}

func (c *TierCache) Invalidate(ctx context.Context, subjectID uuid.UUID) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, tierKey(subjectID)).Err(); err != nil {
		c.log.Warn("Failed to invalidate tier cache entry", "subject_id", subjectID, "error", err)
	}
}
