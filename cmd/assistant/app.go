package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/BearBump/ParcelAssist/config"
	"github.com/BearBump/ParcelAssist/internal/bootstrap"
	"github.com/BearBump/ParcelAssist/internal/transport/console"
	"github.com/google/uuid"
)

// runAssistant plays a single console session. A nil cfg runs on the built-in sample orders.
func runAssistant(ctx context.Context, cfg *config.Config, f bootstrap.Factories, in io.Reader, out io.Writer) error {
	a, err := bootstrap.NewAssistant(ctx, cfg, f)
	if err != nil {
		return err
	}
	defer a.Close()

	sessionID := uuid.NewString()
	sum, err := a.Driver.Run(ctx, sessionID, console.New(in, out))
	if err != nil {
		return err
	}
	slog.Info("session finished", "session_id", sessionID, "state", sum.Final, "escalated", sum.Escalated)
	return nil
}
