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
	"go.uber.org/zap"

	"github.com/termdeck/termdeck/internal/infrastructure/monitoring"
	"github.com/termdeck/termdeck/internal/process"
)

// runCmd keeps the registry reconciled in the background: periodic dead
// process sweeps, adoption scans of the session-state directory, and an
// optional metrics endpoint. The interactive TUI talks to the same
// registry document while this runs.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the background reconciler",
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.log.Sync()

	metrics := monitoring.NewMetrics()
	metrics.RegistryRecords.Set(float64(a.registry.Len()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if addr := a.cfg.Metrics.Addr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", monitoring.Handler())
		srv := &http.Server{Addr: addr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Warn("metrics listener failed", zap.Error(err))
			}
		}()
		defer srv.Close()
		a.log.Info("metrics exporter listening", zap.String("addr", addr))
	}

	watcher := process.NewWatcher(a.cfg.Adoption.StateDir, a.cfg.Adoption.ScanInterval, a.registry, metrics, a.log)
	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Warn("adoption watcher stopped", zap.Error(err))
		}
	}()

	cleanup := time.NewTicker(a.cfg.Registry.CleanupInterval)
	defer cleanup.Stop()

	a.log.Info("reconciler started",
		zap.String("registry", a.cfg.Registry.Path),
		zap.String("state_dir", a.cfg.Adoption.StateDir),
	)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutting down")
			return nil

		case <-cleanup.C:
			removed, err := a.registry.CleanupDead()
			if err != nil {
				a.log.Warn("registry cleanup failed", zap.Error(err))
			}
			if len(removed) > 0 {
				metrics.DeadCleaned.Add(float64(len(removed)))
			}
			metrics.RegistryRecords.Set(float64(a.registry.Len()))
			metrics.UpdateUptime()

		case orphans := <-watcher.Orphans():
			for _, o := range orphans {
				a.log.Info("orphan session detected",
					zap.String("session_id", o.SessionID),
					zap.String("status", o.Status),
					zap.Int("pid", o.PID),
					zap.String("cwd", o.Cwd),
				)
			}
		}
	}
}
