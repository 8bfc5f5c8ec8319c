package database

import (
	"context"
	"fmt"
	"time"

	"github.com/acuity-health/triage-engine/pkg/common/config"
	"github.com/acuity-health/triage-engine/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

// NewRedis connects to Redis and verifies the connection with a short
// ping. Like NewPostgres it returns an injected handle, never a
// process-wide global.
func NewRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Log.Info("Connected to Redis")
	return client, nil
}
