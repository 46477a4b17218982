package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/karirlab/arahkarir-backend/internal/config"
)

// payloadTTL bounds how long a delivery payload outlives its exam. Untimed
// exams can stay open for days, so the TTL is generous; the store remains
// the source of truth on a miss.
const payloadTTL = 7 * 24 * time.Hour

// ExamPayloadCache caches the delivery payload (shuffled question list) of
// an open exam in Redis so the paper read path skips the join against the
// question bank.
type ExamPayloadCache struct {
	rdb *redis.Client
}

// NewExamPayloadCache creates a new ExamPayloadCache.
func NewExamPayloadCache(rdb *redis.Client) *ExamPayloadCache {
	return &ExamPayloadCache{rdb: rdb}
}

// Set stores the serialized payload for an exam.
func (c *ExamPayloadCache) Set(ctx context.Context, examID int64, payload []byte) error {
	return c.rdb.Set(ctx, config.CacheKey.ExamPayloadKey(examID), payload, payloadTTL).Err()
}

// Get retrieves the serialized payload for an exam. Returns redis.Nil on a
// cache miss.
func (c *ExamPayloadCache) Get(ctx context.Context, examID int64) ([]byte, error) {
	return c.rdb.Get(ctx, config.CacheKey.ExamPayloadKey(examID)).Bytes()
}

// Delete drops the payload, called when an exam leaves an open status.
func (c *ExamPayloadCache) Delete(ctx context.Context, examID int64) error {
	return c.rdb.Del(ctx, config.CacheKey.ExamPayloadKey(examID)).Err()
}
