package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fakekoji/otool/pkg/api"
	"github.com/fakekoji/otool/pkg/manager"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Keep the store open and serve metrics and health endpoints",
	Long: `Open the configuration store and serve /metrics, /health, /ready and
/live until interrupted.

A bind address in the config file makes raft listen on TCP instead of an
in-memory transport.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("metrics-addr") {
			cfg.MetricsAddr, _ = cmd.Flags().GetString("metrics-addr")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Starting otool store...")
		fmt.Fprintf(out, "  Data Directory: %s\n", cfg.DataDir)
		fmt.Fprintf(out, "  Metrics Address: %s\n", cfg.MetricsAddr)
		fmt.Fprintln(out)

		mgr, err := openManager(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Store ready")

		collector := manager.NewMetricsCollector(mgr)
		collector.Start()

		hs := api.NewHealthServer(mgr)
		errCh := make(chan error, 1)
		go func() {
			if err := hs.Start(cfg.MetricsAddr); err != nil {
				errCh <- fmt.Errorf("health server error: %w", err)
			}
		}()

		fmt.Fprintln(out, "Store is running. Press Ctrl+C to stop.")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigCh:
			fmt.Fprintln(out, "\nShutting down...")
		case err := <-errCh:
			fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(ctx)
		collector.Stop()
		if err := mgr.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown: %w", err)
		}

		fmt.Fprintln(out, "✓ Shutdown complete")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("metrics-addr", defaultConfig().MetricsAddr, "Address for metrics and health endpoints")

	rootCmd.AddCommand(serveCmd)
}
