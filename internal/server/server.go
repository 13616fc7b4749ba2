package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/products/config"
	"github.com/shashiranjanraj/products/internal/kernel"
	"github.com/shashiranjanraj/products/pkg/database"
	"github.com/shashiranjanraj/products/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Start loads configuration, connects to the database and serves HTTP on
// APP_PORT until SIGINT, SIGTERM or ctx cancellation. A database that never
// becomes reachable is returned as an error before anything listens.
func Start(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	closeSink := configureLogger(ctx)
	defer closeSink()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	boot := database.NewBootstrap(database.Dial(database.FromConfig()), database.DefaultPolicy())
	if err := boot.Initialize(ctx); err != nil {
		logger.Error("database: giving up", "error", err)
		return err
	}
	defer func() {
		if err := boot.Close(); err != nil {
			logger.Warn("database: close failed", "error", err)
		}
	}()

	ln, err := net.Listen("tcp", ":"+config.AppPort())
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}

	srv := &http.Server{
		Handler:           kernel.NewHandler(boot.MustConn(), kernel.DefaultOptions()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return Serve(ctx, srv, ln)
}

// Serve runs srv on ln until ctx is done, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", ln.Addr().String(), "env", config.AppEnv())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	<-errCh
	return nil
}

// configureLogger rebuilds the logger for APP_ENV and attaches the Mongo
// sink when LOG_MONGO_URI is set. A sink that cannot connect is skipped.
func configureLogger(ctx context.Context) func() {
	uri := config.LogMongoURI()
	if uri == "" {
		logger.Configure(config.AppEnv())
		return func() {}
	}

	sink, err := logger.NewMongoHandler(ctx, uri, config.LogMongoDB(), config.LogMongoCollection())
	if err != nil {
		logger.Configure(config.AppEnv())
		logger.Warn("logger: mongo sink disabled", "error", err)
		return func() {}
	}

	logger.Configure(config.AppEnv(), sink)
	return sink.Close
}
