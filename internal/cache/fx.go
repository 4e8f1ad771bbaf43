package cache

import (
	"strings"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/delivize/delivize/internal/config"
	menudomain "github.com/delivize/delivize/internal/menu/domain"
)

var Module = fx.Module("cache",
	fx.Provide(newRedisClient),
	fx.Provide(newMenuResolver),
)

// newRedisClient returns nil when Redis is not configured; callers degrade to
// their local fallbacks.
func newRedisClient(cfg config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	addr := strings.TrimSpace(cfg.Redis.Addr)
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func newMenuResolver(repo menudomain.Repository, client *redis.Client, log *zap.Logger) MenuResolver {
	return NewMenuResolver(repo, client, log)
}
