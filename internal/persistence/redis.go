package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fitcore/gym-service/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client     *redis.Client
	profileTTL time.Duration
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	ttl := time.Duration(cfg.ProfileTTLSec) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Redis{Client: client, profileTTL: ttl}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// GetProfile loads a cached principal profile into dest. Returns false on
// miss or any cache error; callers fall back to the repository.
func (r *Redis) GetProfile(ctx context.Context, key string, dest any) bool {
	if r == nil || r.Client == nil {
		return false
	}
	raw, err := r.Client.Get(ctx, "profile:"+key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetProfile caches a principal profile with the configured TTL. Cache
// write failures are ignored; the cache is advisory.
func (r *Redis) SetProfile(ctx context.Context, key string, value any) {
	if r == nil || r.Client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = r.Client.Set(ctx, "profile:"+key, raw, r.profileTTL).Err()
}

// InvalidateProfile drops a cached profile after an update.
func (r *Redis) InvalidateProfile(ctx context.Context, key string) {
	if r == nil || r.Client == nil {
		return
	}
	_ = r.Client.Del(ctx, "profile:"+key).Err()
}
