package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harun/cortex/internal/observability"
	"github.com/harun/cortex/internal/tracing"
	"github.com/harun/cortex/pkg/extract"
	"github.com/harun/cortex/pkg/journal"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the journal and extract memories on schedule",
	Long: `Watch runs as a long-lived process. It marks journal days dirty as their
files change and extracts memories from dirty days on the configured cron
schedule. When metrics are enabled it also serves a Prometheus endpoint.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer log.Close()

	if err := tracing.Init("cortex"); err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracing.Shutdown(shutdownCtx)
	}()

	store, err := openStore(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	extractor, err := newExtractor(cfg, store, log)
	if err != nil {
		return fmt.Errorf("failed to build extractor: %w", err)
	}

	scheduler, err := extract.NewScheduler(extractor, cfg.Extraction.Schedule, log.GetZerolog())
	if err != nil {
		return fmt.Errorf("failed to build scheduler: %w", err)
	}

	watcher, err := journal.NewWatcher(log.GetZerolog(), scheduler.MarkDirty)
	if err != nil {
		return fmt.Errorf("failed to build watcher: %w", err)
	}
	if err := watcher.Watch(cfg.JournalDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.JournalDir, err)
	}

	scheduler.Start()

	zl := log.GetZerolog()

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		observability.EnsureRegistered()
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			zl.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics endpoint listening")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				zl.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	zl.Info().
		Str("journal_dir", cfg.JournalDir).
		Str("schedule", cfg.Extraction.Schedule).
		Msg("watching journal")
	fmt.Printf("Watching %s (schedule %q). Press Ctrl+C to stop.\n", cfg.JournalDir, cfg.Extraction.Schedule)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	zl.Info().Msg("shutting down")
	scheduler.Stop()
	if err := watcher.Stop(); err != nil {
		zl.Warn().Err(err).Msg("watcher stop failed")
	}
	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	return nil
}
