// Package main is the entrypoint of movvify.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"movvify/internal/cfg"
)

// main is the main entrypoint of the program.
func main() {
	// create cancellable context for shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	defer cancel()

	if err := cfg.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "movvify exiting with error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
