package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BearBump/ParcelAssist/config"
	"github.com/BearBump/ParcelAssist/internal/bootstrap"
)

func main() {
	var cfg *config.Config
	level := slog.LevelWarn
	if p := os.Getenv("configPath"); p != "" {
		c, err := config.LoadConfig(p)
		if err != nil {
			panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
		}
		cfg = c
		level = cfg.Assistant.SlogLevel(level)
	}
	// stdout занят разговором, логи только в stderr
	bootstrap.SetupLogging(os.Stderr, level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := runAssistant(ctx, cfg, bootstrap.DefaultFactories(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
