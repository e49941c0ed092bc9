package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hakizimana/parkgate/internal/cli"
	"github.com/hakizimana/parkgate/internal/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		log.L(ctx).Errorf("parkgate: %v", err)
		os.Exit(1)
	}
}
