// Command espn-adapter runs the ESPN platform adapter: the /execute tool
// surface, onboarding verification and historical season discovery.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/flaim-app/fantasy-mcp/internal/authworker"
	"github.com/flaim-app/fantasy-mcp/internal/config"
	"github.com/flaim-app/fantasy-mcp/internal/espn"
	"github.com/flaim-app/fantasy-mcp/internal/telemetry"
)

const version = "1.0.0"

func main() {
	root := &cobra.Command{
		Use:          "espn-adapter",
		Short:        "ESPN fantasy platform adapter",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logger := telemetry.NewLogger("espn-adapter")
	emitter := telemetry.NewEmitter(logger, "espn-adapter", cfg.LogOperationalEvents)
	espn.SetLogger(logger)

	// Redis is optional: without it the player directory degrades to direct
	// upstream fetches on every search.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("invalid REDIS_URL, running without cache", "err", err)
		} else {
			rdb = redis.NewClient(opts)
		}
	}

	auth := authworker.New(cfg.AuthWorkerURL)
	client := espn.NewClient()
	players := espn.NewPlayerDirectory(client, rdb)
	adapter := espn.NewAdapter(client, auth, players)
	server := espn.NewServer(adapter, auth, emitter, logger, version)

	httpServer := &http.Server{
		Addr:              cfg.AdapterAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("espn adapter listening", "addr", cfg.AdapterAddr, "cache", rdb != nil)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if rdb != nil {
			defer rdb.Close()
		}
		return httpServer.Shutdown(ctx)
	}
}
