package app

import (
	"context"
	"fmt"

	"github.com/yungbote/starcatalog-backend/internal/platform/logger"
	"github.com/yungbote/starcatalog-backend/internal/platform/redisbus"
)

type Clients struct {
	Events redisbus.Publisher
}

func wireClients(ctx context.Context, cfg Config, log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis is optional; without REDIS_ADDR events are dropped.
	events, err := redisbus.New(ctx, cfg.Redis, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis event bus: %w", err)
	}
	if cfg.Redis.Addr == "" {
		log.Info("REDIS_ADDR not set; observation events disabled")
	}
	return Clients{Events: events}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Events != nil {
		_ = c.Events.Close()
	}
}
