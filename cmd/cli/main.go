package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"lead-scraper-go/pkg/cli"
	"lead-scraper-go/pkg/cli/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer logger.CloseLog()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		// The error state has already been rendered by the console view
		if !errors.Is(err, cli.ErrJobFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}
