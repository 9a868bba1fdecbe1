// Package bootstrap assembles the service graph shared by the API server and the operator CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/dejobratic/backoffice/internal/backoffice/adapters"
	fsstore "github.com/dejobratic/backoffice/internal/backoffice/adapters/firestore"
	"github.com/dejobratic/backoffice/internal/backoffice/adapters/memory"
	"github.com/dejobratic/backoffice/internal/backoffice/adapters/postgres"
	"github.com/dejobratic/backoffice/internal/backoffice/app"
	"github.com/dejobratic/backoffice/internal/backoffice/metrics"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
	"github.com/dejobratic/backoffice/internal/config"
	"github.com/dejobratic/backoffice/internal/database"
	idemfirestore "github.com/dejobratic/backoffice/internal/idempotency/firestore"
	idemmemory "github.com/dejobratic/backoffice/internal/idempotency/memory"
	idempostgres "github.com/dejobratic/backoffice/internal/idempotency/postgres"
	"github.com/dejobratic/backoffice/internal/kafka"
)

// Runtime owns the service and every connection opened for it.
type Runtime struct {
	Service *app.Service
	Store   ports.Store

	closers []func() error
}

// Close releases connections in reverse order of creation.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

func (r *Runtime) onClose(fn func() error) {
	r.closers = append(r.closers, fn)
}

// Build opens the configured store, picks an event bus and wires the application service.
// Postgres migrations run first when AutoMigrate is set.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, meter metric.Meter) (*Runtime, error) {
	rt := &Runtime{}

	store, idem, err := rt.openStore(ctx, cfg, logger)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	dbMetrics, err := database.NewMetrics(meter)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("create store metrics: %w", err)
	}
	busMetrics, err := kafka.NewMetrics(meter)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("create event bus metrics: %w", err)
	}
	svcMetrics, err := metrics.NewMetrics(meter)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("create service metrics: %w", err)
	}

	bus := rt.openEventBus(cfg.Kafka, logger)

	rt.Store = adapters.NewObservableStore(store, dbMetrics)
	rt.Service = app.NewService(
		rt.Store,
		adapters.NewObservableEventBus(bus, busMetrics),
		idem,
		logger,
		svcMetrics,
		app.WithLowStockThreshold(cfg.Inventory.LowStockThreshold),
	)
	return rt, nil
}

func (r *Runtime) openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.Store, ports.IdempotencyStore, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.InfoContext(ctx, "using in-memory store")
		return memory.NewStore(), idemmemory.NewStore(), nil

	case config.DriverFirestore:
		client, err := fsstore.NewClient(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		r.onClose(client.Close)
		logger.InfoContext(ctx, "connected to firestore", slog.String("project", cfg.Firestore.ProjectID))
		return fsstore.NewStore(client), idemfirestore.NewStore(client), nil

	case config.DriverPostgres:
		if cfg.Database.AutoMigrate {
			logger.InfoContext(ctx, "running database migrations", slog.String("path", cfg.Database.MigrationsPath))
			if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
				return nil, nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		pool, err := database.NewPool(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("create database pool: %w", err)
		}
		r.onClose(func() error {
			pool.Close()
			return nil
		})
		logger.InfoContext(ctx, "connected to postgres")
		return postgres.NewStore(pool), idempostgres.NewStore(pool), nil
	}
	return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

type closingBus interface {
	ports.EventBus
	Close() error
}

func (r *Runtime) openEventBus(cfg config.KafkaConfig, logger *slog.Logger) ports.EventBus {
	var bus closingBus
	if len(cfg.Brokers) == 0 {
		logger.Info("no kafka brokers configured, events are only logged")
		bus = kafka.NewNoopEventBus(logger)
	} else {
		logger.Info("publishing events to kafka", slog.Any("brokers", cfg.Brokers), slog.String("topic_prefix", cfg.TopicPrefix))
		bus = kafka.NewEventBus(cfg.Brokers, cfg.TopicPrefix)
	}
	r.onClose(bus.Close)
	return bus
}
