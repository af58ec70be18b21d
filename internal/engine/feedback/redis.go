// Package feedback records user ratings and keeps the engine from repeating
// answers users already rated bad.
package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/faix-chatbot/engine/internal/core/error"
	"github.com/faix-chatbot/engine/internal/engine/model"
	logx "github.com/faix-chatbot/engine/pkg/logger"
)

// RedisStore keeps a bounded per-intent window of feedback records in Redis
// lists. Records expire with the TTL so stale verdicts age out on their own.
type RedisStore struct {
	rdb    redis.Cmdable
	window int
	ttl    time.Duration
}

func NewRedisStore(rdb redis.Cmdable, window int, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, window: window, ttl: ttl}
}

func (s *RedisStore) key(intent model.Intent, rating model.Rating) string {
	return fmt.Sprintf("feedback:%s:%s", intent, rating)
}

func (s *RedisStore) Record(ctx context.Context, rec model.FeedbackRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	key := s.key(rec.Intent, rec.Rating)

	if err := s.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push feedback to redis")
		return errx.WrapRedis(err)
	}
	// keep only the newest window entries
	if s.window > 0 {
		if err := s.rdb.LTrim(ctx, key, int64(-s.window), -1).Err(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to trim feedback window")
			return errx.WrapRedis(err)
		}
	}
	if s.ttl > 0 {
		if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set feedback TTL")
			return errx.WrapRedis(err)
		}
	}
	return nil
}

func (s *RedisStore) RecentBad(ctx context.Context, intent model.Intent) ([]model.FeedbackRecord, error) {
	key := s.key(intent, model.RatingBad)
	rows, err := s.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load feedback window from redis")
		return nil, errx.WrapRedis(err)
	}

	recs := make([]model.FeedbackRecord, 0, len(rows))
	for i, row := range rows {
		var rec model.FeedbackRecord
		if err := json.Unmarshal([]byte(row), &rec); err != nil {
			logx.Error().Err(err).Str("key", key).Int("index", i).Msg("failed to unmarshal feedback record")
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

var _ model.FeedbackStore = (*RedisStore)(nil)
