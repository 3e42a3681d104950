// Package bootstrap builds the assistant's dependencies from config.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/BearBump/ParcelAssist/config"
	"github.com/BearBump/ParcelAssist/internal/broker/kafka"
	"github.com/BearBump/ParcelAssist/internal/cache"
	"github.com/BearBump/ParcelAssist/internal/cache/rediscache"
	"github.com/BearBump/ParcelAssist/internal/models"
	"github.com/BearBump/ParcelAssist/internal/services/conversation"
	"github.com/BearBump/ParcelAssist/internal/services/lookup"
	"github.com/BearBump/ParcelAssist/internal/services/notifier"
	"github.com/BearBump/ParcelAssist/internal/storage/memorders"
	"github.com/BearBump/ParcelAssist/internal/storage/pgorders"
)

const (
	OrderStoreMemory   = "memory"
	OrderStorePostgres = "postgres"

	postgresWait = 60 * time.Second
)

type Producer interface {
	notifier.Producer
	Close() error
}

type Cache interface {
	cache.BytesCache
	Close() error
}

type Factories struct {
	OpenPostgres func(ctx context.Context, connString string) (*pgorders.Storage, error)
	NewCache     func(addr string) Cache
	NewProducer  func(brokers []string) Producer
}

func DefaultFactories() Factories {
	return Factories{
		OpenPostgres: func(ctx context.Context, connString string) (*pgorders.Storage, error) {
			return OpenPostgresWithRetry(ctx, connString, postgresWait)
		},
		NewCache: func(addr string) Cache {
			return rediscache.New(addr)
		},
		NewProducer: func(brokers []string) Producer {
			return kafka.NewProducer(brokers)
		},
	}
}

// Assistant is a ready-to-run conversation driver together with what it holds open.
type Assistant struct {
	Driver *conversation.Driver
	Orders lookup.Repository

	ready   []func(context.Context) error
	closers []func()
}

// NewAssistant wires the driver. A nil cfg gives the config-less setup:
// built-in sample orders, no cache, no events.
func NewAssistant(ctx context.Context, cfg *config.Config, f Factories) (*Assistant, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	a := &Assistant{}

	orders, err := a.openOrders(ctx, cfg, f)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Orders = orders

	var c cache.BytesCache
	ttl := time.Duration(cfg.Assistant.OrderCacheTTLSeconds) * time.Second
	if ttl > 0 && cfg.Redis.Host != "" && f.NewCache != nil {
		rc := f.NewCache(cfg.RedisAddr())
		a.closers = append(a.closers, func() { _ = rc.Close() })
		c = rc
	}

	d := conversation.New(lookup.New(orders, c, ttl)).
		WithSettings(cfg.Assistant.MaxAttempts, cfg.Assistant.CaseRefPrefix)

	if cfg.Assistant.EventsEnabled && f.NewProducer != nil {
		p := f.NewProducer(cfg.KafkaBrokers())
		a.closers = append(a.closers, func() { _ = p.Close() })
		d.WithEvents(notifier.New(p, cfg.EventsTopic()))
		slog.Info("assistant events enabled", "topic", cfg.EventsTopic())
	}

	a.Driver = d
	return a, nil
}

func (a *Assistant) openOrders(ctx context.Context, cfg *config.Config, f Factories) (lookup.Repository, error) {
	kind := strings.ToLower(strings.TrimSpace(cfg.Assistant.OrderStore))
	switch kind {
	case "", OrderStoreMemory:
		seed, err := SeedOrders(cfg.Assistant.SeedPath)
		if err != nil {
			return nil, err
		}
		st, err := memorders.New(seed)
		if err != nil {
			return nil, err
		}
		slog.Info("order store ready", "kind", OrderStoreMemory, "orders", st.Len())
		return st, nil

	case OrderStorePostgres:
		if f.OpenPostgres == nil {
			return nil, fmt.Errorf("postgres order store is not available")
		}
		st, err := f.OpenPostgres(ctx, cfg.PostgresConnString())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, st.Close)
		a.ready = append(a.ready, st.Ping)

		if cfg.Assistant.SeedOnStart {
			seed, err := SeedOrders(cfg.Assistant.SeedPath)
			if err != nil {
				return nil, err
			}
			if err := st.UpsertOrders(ctx, seed); err != nil {
				return nil, err
			}
			slog.Info("orders seeded", "count", len(seed))
		}
		slog.Info("order store ready", "kind", OrderStorePostgres)
		return st, nil

	default:
		return nil, fmt.Errorf("unknown order store %q", cfg.Assistant.OrderStore)
	}
}

// Ready reports the first failing dependency check.
func (a *Assistant) Ready(ctx context.Context) error {
	for _, check := range a.ready {
		if err := check(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assistant) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// SeedOrders reads the seed file, or returns the built-in samples when path is empty.
func SeedOrders(path string) ([]models.Order, error) {
	if path == "" {
		return memorders.SampleOrders(), nil
	}
	return memorders.LoadSeedFile(path)
}

func OpenPostgresWithRetry(ctx context.Context, connString string, wait time.Duration) (*pgorders.Storage, error) {
	deadline := time.Now().Add(wait)
	var lastErr error
	for {
		st, err := pgorders.New(connString)
		if err == nil {
			return st, nil
		}
		lastErr = err
		if time.Now().After(deadline) {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return nil, fmt.Errorf("postgres is not ready after %s: %w", wait, lastErr)
}

// SetupLogging installs a text slog handler writing to w.
func SetupLogging(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
