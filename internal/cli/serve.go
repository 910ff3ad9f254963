package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Adithya151/DCF---racker/internal/config"
	"github.com/Adithya151/DCF---racker/internal/server"
	"github.com/Adithya151/DCF---racker/internal/tracker"
)

// NewServeCmd creates the serve command, which exposes the tracker over HTTP
// with Prometheus metrics.
func NewServeCmd() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and Prometheus metrics",
		Long: `Starts an HTTP server exposing activity logging, dashboards, resets, the
leaderboard, /healthz, and /metrics. The server shuts down gracefully on
SIGINT or SIGTERM.`,
		Example: `  # Serve on the configured address
  dcftracker serve

  # Serve on another port with a Postgres store
  DCFTRACKER_STORE_DRIVER=postgres DCFTRACKER_STORE_DSN=postgres://... dcftracker serve --address :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, address)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "listen address (default from server.address)")

	return cmd
}

func runServe(cmd *cobra.Command, address string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverCfg := config.GetGlobalConfig().Server
	if address != "" {
		serverCfg.Address = address
	}

	metrics := server.NewMetrics()
	svc, cleanup, err := openService(ctx, tracker.WithObserver(metrics))
	if err != nil {
		return err
	}
	defer cleanup()

	srv := server.New(serverCfg, svc, metrics, baseLogger)
	cmd.Printf("Serving on %s\n", serverCfg.Address)

	if err = srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serving HTTP: %w", err)
	}
	return nil
}
