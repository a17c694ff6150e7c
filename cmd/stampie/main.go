package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/flint/Stampie/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.New().RootCommand().ExecuteContext(ctx)
	sentry.Flush(2 * time.Second)
	cancel()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "stampie:", err)
		os.Exit(1)
	}
}
