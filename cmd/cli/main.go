// Package main is the entry point for the cpow CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"cpow/cmd/cli/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
