// Command gateway runs the public MCP endpoint: transport, auth gate, tool
// registry and the routing layer in front of the platform adapters.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/flaim-app/fantasy-mcp/internal/authworker"
	"github.com/flaim-app/fantasy-mcp/internal/config"
	"github.com/flaim-app/fantasy-mcp/internal/mcpgw"
	"github.com/flaim-app/fantasy-mcp/internal/telemetry"
)

const version = "1.0.0"

func main() {
	root := &cobra.Command{
		Use:          "gateway",
		Short:        "Fantasy sports MCP gateway",
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
	logger := telemetry.NewLogger("mcp-gateway")
	emitter := telemetry.NewEmitter(logger, "mcp-gateway", cfg.LogOperationalEvents)

	auth := authworker.New(cfg.AuthWorkerURL)
	router := mcpgw.NewRouter(cfg.ESPNAdapterURL)
	server := mcpgw.NewServer(cfg, auth, router, emitter, logger, version)

	httpServer := &http.Server{
		Addr:              cfg.GatewayAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", "addr", cfg.GatewayAddr, "resource", cfg.PublicBaseURL+"/mcp")
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
		return httpServer.Shutdown(ctx)
	}
}
