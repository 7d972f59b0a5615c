package learner

import (
	"context"
	"log/slog"
	"time"
)

// EventPruner deletes old progression history.
type EventPruner interface {
	PruneEvents(ctx context.Context, cutoff time.Time) (int64, error)
}

// SweepConfig controls the idle sweeper.
type SweepConfig struct {
	Interval time.Duration
	TTL      time.Duration
	// Retention is how long history is kept. Zero keeps it forever.
	Retention time.Duration
}

// StartSweeper runs a background goroutine that periodically evicts idle
// sessions and prunes old history until ctx is canceled.
func StartSweeper(ctx context.Context, m *Manager, pruner EventPruner, cfg SweepConfig) {
	ticker := time.NewTicker(cfg.Interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session sweeper started", "interval", cfg.Interval, "ttl", cfg.TTL, "retention", cfg.Retention)

		for {
			select {
			case <-ticker.C:
				sweep(ctx, m, pruner, cfg)
			case <-ctx.Done():
				slog.Info("Session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func sweep(ctx context.Context, m *Manager, pruner EventPruner, cfg SweepConfig) {
	if evicted := m.EvictIdle(cfg.TTL); evicted > 0 {
		slog.Info("Session sweeper evicted idle sessions", "count", evicted, "remaining", m.Len())
	}

	if pruner == nil || cfg.Retention <= 0 {
		return
	}
	deleted, err := pruner.PruneEvents(ctx, time.Now().Add(-cfg.Retention))
	if err != nil {
		slog.Error("Session sweeper failed to prune learner events", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("Session sweeper pruned learner events", "count", deleted)
	}
}
