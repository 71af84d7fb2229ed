package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/synkyria/synkyria/pkg/feed"
	"github.com/synkyria/synkyria/pkg/logging"
	"github.com/synkyria/synkyria/pkg/monitor"
	"github.com/synkyria/synkyria/pkg/runner"
	"github.com/synkyria/synkyria/pkg/telemetry"
)

// newWatchCmd creates the watch subcommand: it follows the JSONL metrics
// file of a live training run and emits a snapshot per appended epoch.
func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the metrics file of a live training run",
		RunE:  runWatch,
	}

	cmd.Flags().StringP("file", "f", "", "Path to the JSONL metrics file appended by the trainer")
	cmd.Flags().String("listen", "", "Address to serve Prometheus metrics on (overrides config if set)")
	cmd.Flags().Bool("json", false, "Print each snapshot as a JSON line instead of log output")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path, err := cmd.Flags().GetString("file")
	if err != nil {
		return fmt.Errorf("failed to get file flag: %w", err)
	}
	listen, err := cmd.Flags().GetString("listen")
	if err != nil {
		return fmt.Errorf("failed to get listen flag: %w", err)
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}
	if listen != "" {
		config.Metrics.Enabled = true
		config.Metrics.Listen = listen
	}

	logger := logging.Setup(config.Logging)

	mon, err := monitor.New(config.Monitor)
	if err != nil {
		return err
	}

	opts := []runner.Option{}

	var server *http.Server
	if config.Metrics.Enabled {
		metrics := telemetry.NewMetrics()
		opts = append(opts, runner.WithMetrics(metrics))

		mux := http.NewServeMux()
		mux.Handle(config.Metrics.Path, metrics.Handler())
		server = &http.Server{Addr: config.Metrics.Listen, Handler: mux}
		go func() {
			logger.Info().Str("listen", config.Metrics.Listen).Msg("serving metrics")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		opts = append(opts, runner.WithSnapshotFunc(func(snap monitor.Snapshot) {
			_ = enc.Encode(snap)
		}))
	}

	follower, err := feed.Follow(path)
	if err != nil {
		return err
	}
	defer follower.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run := runner.New(mon, logger, opts...)
	summary, err := run.Run(ctx, follower)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info().
		Int("epochs", summary.Epochs).
		Bool("stopped", summary.Stopped).
		Str("final_status", string(summary.Final.Status)).
		Msg("watch finished")

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}
	return nil
}
