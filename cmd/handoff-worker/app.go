package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/BearBump/ParcelAssist/config"
	"github.com/BearBump/ParcelAssist/internal/bootstrap"
	"github.com/BearBump/ParcelAssist/internal/broker/kafka"
	"github.com/BearBump/ParcelAssist/internal/services/handoff"
)

type eventConsumer interface {
	handoff.Consumer
	Close() error
}

type workerFactories struct {
	newStorage  func(ctx context.Context, cfg *config.Config) (repo handoff.Repository, ready func(context.Context) error, closeFn func(), err error)
	newConsumer func(cfg *config.Config, groupID string) eventConsumer
}

func defaultWorkerFactories() workerFactories {
	return workerFactories{
		newStorage: func(ctx context.Context, cfg *config.Config) (handoff.Repository, func(context.Context) error, func(), error) {
			st, err := bootstrap.OpenPostgresWithRetry(ctx, cfg.PostgresConnString(), 60*time.Second)
			if err != nil {
				return nil, nil, nil, err
			}
			return st, st.Ping, st.Close, nil
		},
		newConsumer: func(cfg *config.Config, groupID string) eventConsumer {
			return kafka.NewConsumer(cfg.KafkaBrokers(), cfg.EventsTopic(), groupID)
		},
	}
}

type workerOpts struct {
	httpAddr string
	onListen func(httpAddr string)
}

func RunHandoffWorker(ctx context.Context, cfg *config.Config, f workerFactories, opts workerOpts) error {
	group := cfg.Assistant.WorkerConsumerGroup
	if group == "" {
		group = "handoff-worker"
	}
	if opts.httpAddr == "" {
		opts.httpAddr = cfg.Assistant.WorkerHTTPAddr
	}

	repo, ready, closeFn, err := f.newStorage(ctx, cfg)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}

	consumer := f.newConsumer(cfg, group)
	defer func() { _ = consumer.Close() }()

	svc := handoff.New(repo)

	httpErr := make(chan error, 1)
	go func() {
		httpErr <- runWorkerHTTPServer(ctx, workerHTTPOpts{
			httpAddr: opts.httpAddr,
			onListen: opts.onListen,
			svc:      svc,
			ready:    ready,
		})
	}()

	consumeErr := make(chan error, 1)
	go func() {
		slog.Info("kafka consumer started", "topic", cfg.EventsTopic(), "group", group)
		consumeErr <- svc.Run(ctx, consumer)
	}()

	select {
	case err = <-consumeErr:
	case err = <-httpErr:
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
