package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/ParcelAssist/config"
	"github.com/BearBump/ParcelAssist/internal/bootstrap"
	"github.com/BearBump/ParcelAssist/internal/cache/rediscache"
	"github.com/BearBump/ParcelAssist/internal/transport/chathttp"
)

type chatAPIApp struct {
	ctx       context.Context
	cancel    context.CancelFunc
	opts      chatAPIOpts
	chat      *chathttp.Server
	assistant *bootstrap.Assistant
	limiter   *rediscache.RateLimiter
}

func mustBootstrapChatAPI() *chatAPIApp {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		panic("configPath env var is required")
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}
	bootstrap.SetupLogging(os.Stderr, cfg.Assistant.SlogLevel(slog.LevelInfo))

	grpcAddr := cfg.Assistant.GRPCAddr
	if grpcAddr == "" {
		grpcAddr = ":50051"
	}
	httpAddr := cfg.Assistant.ChatHTTPAddr
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	idle := time.Duration(cfg.Assistant.SessionIdleSeconds) * time.Second
	if idle <= 0 {
		idle = 5 * time.Minute
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a, err := bootstrap.NewAssistant(ctx, cfg, bootstrap.DefaultFactories())
	if err != nil {
		cancel()
		panic(err)
	}

	chat := chathttp.New(ctx, a.Driver).
		WithIdleTimeout(idle).
		WithReadiness(a.Ready)

	var rl *rediscache.RateLimiter
	if cfg.Assistant.SessionRateLimitPerMinute > 0 && cfg.Redis.Host != "" {
		rl = rediscache.NewRateLimiter(cfg.RedisAddr())
		chat.WithLimiter(rl, cfg.Assistant.SessionRateLimitPerMinute)
	}

	return &chatAPIApp{
		ctx:    ctx,
		cancel: cancel,
		opts: chatAPIOpts{
			grpcAddr:    grpcAddr,
			httpAddr:    httpAddr,
			swaggerPath: os.Getenv("swaggerPath"),
			corsOrigins: cfg.Assistant.CORSAllowedOrigins,
		},
		chat:      chat,
		assistant: a,
		limiter:   rl,
	}
}

func (a *chatAPIApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.chat != nil {
		a.chat.Close()
	}
	if a.limiter != nil {
		_ = a.limiter.Close()
	}
	if a.assistant != nil {
		a.assistant.Close()
	}
}

func (a *chatAPIApp) Run() error {
	return runChatAPI(a.ctx, a.opts, a.chat)
}
