// Package eventbus fans catalog events out across API processes through Redis pub/sub.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yigit/courseplanner/internal/app/models"
)

// ErrNotInitialized is returned when the bus has no Redis client
var ErrNotInitialized = errors.New("redis event bus not initialized")

// RedisBus publishes catalog events on a Redis channel
type RedisBus struct {
	rdb     *goredis.Client
	channel string
	logger  zerolog.Logger
}

// Options configures the Redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// Dial connects to Redis and verifies the connection
func Dial(ctx context.Context, opts Options, logger zerolog.Logger) (*RedisBus, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisBus(rdb, opts.Channel, logger), nil
}

// NewRedisBus wraps an existing client
func NewRedisBus(rdb *goredis.Client, channel string, logger zerolog.Logger) *RedisBus {
	return &RedisBus{
		rdb:     rdb,
		channel: channel,
		logger:  logger.With().Str("component", "redis_bus").Str("channel", channel).Logger(),
	}
}

// Publish sends the event to every subscribed process
func (b *RedisBus) Publish(ctx context.Context, event models.CatalogEvent) error {
	if b == nil || b.rdb == nil {
		return ErrNotInitialized
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode catalog event: %w", err)
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// StartForwarder subscribes to the channel and calls onEvent for each event
// until ctx is done. It returns once the subscription is confirmed.
func (b *RedisBus) StartForwarder(ctx context.Context, onEvent func(models.CatalogEvent)) error {
	if b == nil || b.rdb == nil {
		return ErrNotInitialized
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
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
				var event models.CatalogEvent
				if err := json.Unmarshal([]byte(m.Payload), &event); err != nil {
					b.logger.Warn().Err(err).Msg("Bad catalog event payload")
					continue
				}
				onEvent(event)
			}
		}
	}()

	b.logger.Info().Msg("Catalog event forwarder started")
	return nil
}

// Close releases the Redis connection
func (b *RedisBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
