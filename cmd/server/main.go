package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nethra/sentinel/internal/server/config"
	"github.com/nethra/sentinel/internal/server/handlers"
	"github.com/nethra/sentinel/internal/server/jwt"
	"github.com/nethra/sentinel/internal/server/middleware"
	"github.com/nethra/sentinel/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if cfg.InsecureSecret {
		// Деплой обязан задать SENTINEL_JWT_SECRET; fallback только для разработки
		logger.Warn("SENTINEL_JWT_SECRET is not set, using insecure development secret")
	}

	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	tokens := jwt.NewService(cfg.JWTSecret, cfg.TokenTTL)

	authHandler := handlers.NewAuthHandler(logger, store, tokens)
	healthHandler := handlers.NewHealthHandler(logger)

	protect := middleware.Protect(logger, tokens, store)
	admin := middleware.Admin(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.Handle("GET /profile", protect(http.HandlerFunc(authHandler.GetProfile)))
	mux.Handle("PUT /profile", protect(http.HandlerFunc(authHandler.UpdateProfile)))
	mux.Handle("POST /password", protect(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("GET /admin/users", protect(admin(http.HandlerFunc(authHandler.ListUsers))))

	// Внешние middleware оборачивают весь роутер
	handler := middleware.Recovery(logger)(middleware.Logging(logger)(mux))

	server := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"address", cfg.Address,
			"env", cfg.Env,
			"version", Version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

func printVersion() {
	fmt.Printf("Sentinel Auth Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
