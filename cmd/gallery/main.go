package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"image-gallery/internal/logging"
	"image-gallery/internal/vips"

	"golang.org/x/term"
)

func main() {
	logging.SetTimestamps(!term.IsTerminal(int(os.Stderr.Fd())))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	vips.Shutdown()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
