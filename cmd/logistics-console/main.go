package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"logistics-console/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx, cli.Options{}, os.Args[1:]); err != nil {
		cancel()
		os.Exit(1)
	}
}
