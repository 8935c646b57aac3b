package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/infralens/api/internal/models"
)

// SnapshotStore shares hub results between API instances. Implementations
// treat every failure as a miss.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]models.ModelRecommendation, bool)
	Set(ctx context.Context, key string, list []models.ModelRecommendation)
}

const snapshotPrefix = "hub:"

// RedisSnapshots stores hub results in Redis as JSON.
type RedisSnapshots struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSnapshots creates a snapshot store on client.
func NewRedisSnapshots(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *RedisSnapshots {
	if ttl <= 0 {
		ttl = DefaultHubTTL
	}
	return &RedisSnapshots{client: client, ttl: ttl, logger: logger}
}

func (r *RedisSnapshots) Get(ctx context.Context, key string) ([]models.ModelRecommendation, bool) {
	data, err := r.client.Get(ctx, snapshotPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("hub snapshot read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var list []models.ModelRecommendation
	if err := json.Unmarshal(data, &list); err != nil {
		r.logger.Warn("hub snapshot corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return list, true
}

func (r *RedisSnapshots) Set(ctx context.Context, key string, list []models.ModelRecommendation) {
	data, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, snapshotPrefix+key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("hub snapshot write failed", zap.String("key", key), zap.Error(err))
	}
}
