// Package redisbus publishes domain events on a Redis pub/sub channel.
package redisbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/yungbote/starcatalog-backend/internal/platform/logger"
)

const DefaultChannel = "starcatalog.events"

type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// NewEvent stamps data with a ULID so consumers can order and dedupe.
func NewEvent(eventType string, at time.Time, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return Event{
		ID:         ulid.Make().String(),
		Type:       eventType,
		OccurredAt: at.UTC(),
		Data:       raw,
	}, nil
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type Config struct {
	Addr    string
	Channel string
	// Breaker opens after this many consecutive failures.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

type redisPublisher struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
	cb      *gobreaker.CircuitBreaker
}

// New connects to Redis and verifies it with a ping. An empty Addr yields a
// publisher that drops everything.
func New(ctx context.Context, cfg Config, log *logger.Logger) (Publisher, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.Addr == "" {
		return Nop{}, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewFromClient(rdb, cfg, log), nil
}

// NewFromClient wraps an existing client; the publisher owns it from here on.
func NewFromClient(rdb *goredis.Client, cfg Config, log *logger.Logger) Publisher {
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	l := log.With("service", "RedisEventBus", "channel", cfg.Channel)
	maxFailures := cfg.MaxFailures
	return &redisPublisher{
		log:     l,
		rdb:     rdb,
		channel: cfg.Channel,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "redis-publish",
			Timeout: cfg.OpenTimeout,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				l.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("event bus unavailable")

func (p *redisPublisher) Publish(ctx context.Context, ev Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.rdb.Publish(ctx, p.channel, raw).Err()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// Subscribe forwards events on the channel to fn until ctx ends.
func (p *redisPublisher) Subscribe(ctx context.Context, fn func(Event)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					p.log.Warn("bad event payload", "error", err)
					continue
				}
				fn(ev)
			}
		}
	}()
	return nil
}

func (p *redisPublisher) Close() error {
	return p.rdb.Close()
}

// Subscriber is implemented by publishers backed by a live channel.
type Subscriber interface {
	Subscribe(ctx context.Context, fn func(Event)) error
}

// Nop drops events. Used when no Redis address is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
