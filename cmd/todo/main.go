// Package main is the entry point for the todo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"todo/internal/backend"
	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/service"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Cancel on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mgr := service.NewManager(backend.Open)
	defer mgr.Close()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, mgr.Service)
	return dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}
