package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/nethra/sentinel/internal/client/api"
	"github.com/nethra/sentinel/internal/client/auth"
	"github.com/nethra/sentinel/internal/client/cli"
	"github.com/nethra/sentinel/internal/client/iocli"
	"github.com/nethra/sentinel/internal/client/session"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "sentinel-client.db", "Path to local session database")

	flag.Parse()

	stdio := iocli.NewStdio()

	if *showVersion {
		printVersion(stdio)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(stdio)
		os.Exit(1)
	}

	command := args[0]
	ctx := context.Background()

	// Открываем локальное хранилище сессии
	store, err := session.NewDualStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open session database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close session database", "error", err)
		}
	}()

	apiClient := api.NewClient(*serverURL)
	sessions := auth.NewService(apiClient, store)

	// Восстанавливаем кешированную сессию, сервер не опрашивается:
	// протухший токен обнаружится на первом защищенном запросе
	if _, err := sessions.Restore(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to restore session: %v\n", err)
		os.Exit(1)
	}

	c := cli.New(stdio, sessions)
	if err := c.Run(ctx, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUnknownCommand) {
			cli.PrintUsage(stdio)
		}
		os.Exit(1)
	}
}

func printVersion(io iocli.IO) {
	io.Printf("Sentinel Client\n")
	io.Printf("Version:    %s\n", Version)
	io.Printf("Build Date: %s\n", BuildDate)
	io.Printf("Git Commit: %s\n", GitCommit)
}
