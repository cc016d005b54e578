package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var Redis *redis.Client

// ConnectRedis opens the Redis client backing the session store and checks it responds
func ConnectRedis(redisURL string) error {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	Redis = client
	logrus.WithField("addr", opt.Addr).Info("Redis connection established successfully")
	return nil
}

// GetRedis returns the Redis client
func GetRedis() *redis.Client {
	return Redis
}

// SetRedis sets the Redis client (primarily for testing)
func SetRedis(client *redis.Client) {
	Redis = client
}
