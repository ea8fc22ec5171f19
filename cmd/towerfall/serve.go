package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/towerfall/internal/metrics"
	"github.com/vovakirdan/towerfall/internal/platform/tui"
	"github.com/vovakirdan/towerfall/internal/platform/web"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagHTTPAddr    string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the towerfall SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with a mode picker menu.
Scores are stored per-server (all users share the same leaderboard).

With --http, a second listener serves Prometheus metrics at /metrics,
a health check at /healthz and the leaderboard under /api.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.towerfall/host_key

Examples:
  towerfall serve                           # Listen on :23234 with auto-generated key
  towerfall serve --ssh :2222               # Listen on port 2222
  towerfall serve --http :9090              # Also serve metrics and the API
  towerfall serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "Metrics and leaderboard API address (disabled if empty)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	towerCfg, err := loadTowerConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Tower = towerCfg
	cfg.Logger = logger
	// Remote redraws are capped to keep per-connection traffic down.
	if flagFPS > 0 {
		cfg.FPS = min(flagFPS, 30)
	}

	var httpSrv *web.Server
	if flagHTTPAddr != "" {
		cfg.Metrics = metrics.New()
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	if flagHTTPAddr != "" {
		httpSrv = web.New(flagHTTPAddr, server.Store(), cfg.Metrics, logger)
		go func() {
			if err := httpSrv.ListenAndServe(); err != nil {
				logger.Error("http server error", "err", err)
			}
		}()
	}

	fmt.Printf("Starting towerfall SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	serveErr := server.ListenAndServe()

	if httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			logger.Warn("http shutdown", "err", err)
		}
	}
	if serveErr != nil {
		return fmt.Errorf("server error: %w", serveErr)
	}
	return nil
}

// portOf returns the port part of a listen address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
