package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/preston-bernstein/golf-league-service/internal/config"
	"github.com/preston-bernstein/golf-league-service/internal/logging"
	"github.com/preston-bernstein/golf-league-service/internal/server"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, stop)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// run builds the league server from the environment and blocks until ctx ends.
func run(ctx context.Context, stop context.CancelFunc) error {
	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.Metrics.ServiceName,
		Version: appVersion,
	})

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logging.Error(logger, "server setup failed", err)
		return err
	}
	srv.Run(ctx, stop)
	return nil
}
