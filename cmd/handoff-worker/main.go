package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BearBump/ParcelAssist/config"
	"github.com/BearBump/ParcelAssist/internal/bootstrap"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("configPath"))
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}
	bootstrap.SetupLogging(os.Stderr, cfg.Assistant.SlogLevel(slog.LevelInfo))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := RunHandoffWorker(ctx, cfg, defaultWorkerFactories(), workerOpts{}); err != nil && !errors.Is(err, context.Canceled) {
		panic(err)
	}
}
