package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/synaptica-ai/hospital-dataset/pkg/common/config"
	"github.com/synaptica-ai/hospital-dataset/pkg/common/logger"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
	redisErr    error
)

func GetRedis(cfg *config.Config) (*redis.Client, error) {
	redisOnce.Do(func() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisErr = fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr(), err)
			logger.Log.WithError(err).Error("Failed to connect to Redis")
			return
		}
		logger.Log.Info("Connected to Redis")
	})

	return redisClient, redisErr
}

func CloseRedis() error {
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}
