package providers

import (
	"log/slog"

	"calendario.app/config"
	"calendario.app/errors"
	"calendario.app/providers/cache"
)

// NewCacheFromConfig builds the configured cache backend. A redis connection
// failure is a configuration error; the caller decides whether to fall back.
func NewCacheFromConfig(cfg *config.CacheConfig) (cache.Cache, error) {
	switch cfg.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, errors.NewConfigurationError("failed to connect to redis cache", err)
		}
		slog.Info("Using redis cache", "addr", cfg.RedisAddr)
		return redisCache, nil
	default:
		slog.Info("Using in-memory cache")
		return cache.NewMemoryCache(), nil
	}
}
