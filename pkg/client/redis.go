package client

import (
	"Aviary/config"
	"Aviary/pkg/log"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient returns a nil client when redis is disabled, which callers
// treat as "no cache".
func NewRedisClient(conf *config.Config) (*redis.Client, func(), error) {
	if conf.Redis == nil || !conf.Redis.Enabled {
		log.L.Info("redis disabled")
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        conf.Redis.Addr(),
		Password:    conf.Redis.Password,
		Username:    conf.Redis.Username,
		DB:          conf.Redis.Database,
		DialTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", conf.Redis.Addr(), err)
	}
	log.L.Info("redis client success", zap.String("addr", conf.Redis.Addr()))

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.L.Error("close redis", zap.Error(err))
		}
	}
	return client, cleanup, nil
}
