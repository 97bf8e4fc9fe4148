// Package main is the entry point for the reltool CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"reltool/internal/backend/clickup"
	"reltool/internal/cli"
	"reltool/internal/commands"
	"reltool/internal/config"
	"reltool/internal/service"
	"reltool/internal/shell"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		client, err := clickup.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory, shell.ExecRunner{})

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
