package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alimgiray/gitident/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.WithError(err).Error("Failed to configure git identity")
		stop()
		os.Exit(1)
	}
}
