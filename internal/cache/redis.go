package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Brownie44l1/nutrisense-api/internal/config"
	"github.com/Brownie44l1/nutrisense-api/internal/model"
)

const keyPrefix = "nutrisense:prediction:"

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// Redis is a Cache shared between replicas
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps client; a zero ttl keeps entries forever
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) (*model.Prediction, bool, error) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached prediction: %w", err)
	}

	var p model.Prediction
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached prediction: %w", err)
	}
	return &p, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, p *model.Prediction) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode prediction: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache prediction: %w", err)
	}
	return nil
}
