package lock

import (
	"github.com/kpharma/pharmgate/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func newRedisClient(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// Module provides the optional transition locker.
var Module = fx.Module("lock",
	fx.Provide(newRedisClient),
	fx.Provide(NewLocker),
)
