package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vogiaan1904/ticketbottle-queuestatus/config"
	pkgLog "github.com/vogiaan1904/ticketbottle-queuestatus/pkg/logger"
	pkgRedis "github.com/vogiaan1904/ticketbottle-queuestatus/pkg/redis"
)

func Connect(ctx context.Context, cfg config.RedisConfig, l pkgLog.Logger) (*redis.Client, error) {
	cli := pkgRedis.NewClient(cfg)

	if err := cli.Ping(ctx).Err(); err != nil {
		cli.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	l.Infof(ctx, "Connected to Redis at %s", cfg.Addr)

	return cli, nil
}

func Disconnect(ctx context.Context, cli *redis.Client, l pkgLog.Logger) {
	if cli == nil {
		return
	}

	if err := cli.Close(); err != nil {
		l.Warnf(ctx, "Failed to close Redis connection: %v", err)
		return
	}

	l.Info(ctx, "Connection to Redis closed.")
}
