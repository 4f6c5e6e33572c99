package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"golang.org/x/sync/errgroup"

	"docsync/internal/config"
	"docsync/internal/formatting"
	"docsync/pkg/logging"
)

// runServe runs the loop until ctx is cancelled or the process is signalled.
// The watcher and status server share the loop's lifetime; a failing status
// server shuts everything down.
func runServe(ctx context.Context, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer func() {
		if err := services.Close(); err != nil {
			logging.Warn("Serve", "Failed to close services: %v", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	if err := services.Loop.Start(gctx); err != nil {
		return fmt.Errorf("failed to start reconcile loop: %w", err)
	}
	defer services.Loop.Stop()

	if services.Watcher != nil {
		if err := services.Watcher.Start(gctx); err != nil {
			// Polling still picks up changes.
			logging.Warn("Serve", "File watching disabled: %v", err)
		} else {
			defer services.Watcher.Stop()
		}
	}

	if services.Server != nil {
		g.Go(func() error {
			return services.Server.Start(gctx)
		})
	}

	logging.Info("Serve", "docsync is running. Press Ctrl+C to stop.")

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	err := g.Wait()
	logging.Info("Serve", "--- Shutting down ---")
	return err
}

// RunCheck performs one tick of the configured source against an in-memory
// store, without the watcher, status server or Kubernetes events, and reports
// what was resolved.
func RunCheck(ctx context.Context, cfg *Config, opts ...Option) (*formatting.Report, error) {
	dc, err := loadConfiguration(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	return check(ctx, dc, opts...)
}

func check(ctx context.Context, dc config.DocsyncConfig, opts ...Option) (*formatting.Report, error) {
	dc.Store.Type = config.StoreTypeMemory
	dc.Source.Disk.Watch = false
	dc.Server.Enabled = false
	// Every document looks new to an empty store.
	dc.Source.Kubernetes.Events = false

	services, err := InitializeServices(ctx, dc, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	defer services.Close()

	tick := services.Loop.RunOnce(ctx)

	report := &formatting.Report{Tick: tick}
	if services.Snapshots != nil {
		docs, err := services.Snapshots.List(ctx)
		if err != nil {
			return report, err
		}
		for _, doc := range docs {
			report.Documents = append(report.Documents, doc.Summary())
		}
		sort.Slice(report.Documents, func(i, j int) bool {
			return report.Documents[i].ContextPath < report.Documents[j].ContextPath
		})
	}
	return report, nil
}
