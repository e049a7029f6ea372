package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/law-makers/catalog/internal/cli"
)

func main() {
	// Interrupts cancel the run; open browser sessions are closed on the way out
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
