package config

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client
var Ctx = context.Background()

// ConnectRedis sets up the auth cache client. The cache is optional: when
// REDIS_ADDR is empty or the server is unreachable, RDB stays nil and the
// auth middleware falls back to hitting the database on every request.
func ConnectRedis() {
	if App.RedisAddr == "" {
		slog.Warn("REDIS_ADDR not set, auth caching disabled")
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr: App.RedisAddr,
	})

	if _, err := RDB.Ping(Ctx).Result(); err != nil {
		slog.Error("Redis connection failed, auth caching disabled", "error", err)
		RDB = nil
		return
	}

	slog.Info("Connected to Redis", "addr", App.RedisAddr)
}
