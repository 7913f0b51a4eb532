package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/questlearn-backend/internal/clients/redis"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/realtime/bus"
)

type Clients struct {
	// Redis is nil when REDIS_ADDR is unset.
	Redis  *goredis.Client
	SSEBus bus.Bus
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	rdb, err := redis.NewClient(ctx, log, redis.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}

	var sseBus bus.Bus
	if rdb != nil {
		sseBus, err = bus.NewRedisBus(log, rdb, cfg.RedisChannel)
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
	} else {
		log.Info("REDIS_ADDR not set, realtime events stay in-process")
		sseBus = bus.NewLocalBus()
	}

	return Clients{Redis: rdb, SSEBus: sseBus}, nil
}

// universal hides a nil *goredis.Client behind a nil interface.
func (c Clients) universal() goredis.UniversalClient {
	if c.Redis == nil {
		return nil
	}
	return c.Redis
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
