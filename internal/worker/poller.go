// Package worker runs the background refresh loop that keeps the
// activity feed current without the handlers re-reading the store on
// every request.
package worker

import (
	"context"
	"sync"
	"time"

	"duitku/internal/history"
	"duitku/internal/log"
)

// HistoryPoller keeps an in-memory snapshot of the history log, refreshed
// on a fixed interval. The snapshot is at most one interval stale, which
// is acceptable for an activity feed.
type HistoryPoller struct {
	history  *history.Logger
	logger   *log.Logger
	interval time.Duration

	mu      sync.RWMutex
	entries []history.Entry
}

func NewHistoryPoller(hist *history.Logger, interval time.Duration, logger *log.Logger) *HistoryPoller {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &HistoryPoller{
		history:  hist,
		logger:   logger.WithComponent(log.ComponentPoller),
		interval: interval,
	}
}

// Run refreshes immediately, then on every tick until ctx is cancelled.
func (p *HistoryPoller) Run(ctx context.Context) error {
	p.Refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.InfoContext(ctx, "History poller started",
		log.FieldOperation, log.OpStartup, "interval", p.interval.String())

	for {
		select {
		case <-ctx.Done():
			p.logger.InfoContext(ctx, "History poller stopped", log.FieldOperation, log.OpShutdown)
			return ctx.Err()
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// Refresh re-reads the log from the store right now.
func (p *HistoryPoller) Refresh(ctx context.Context) {
	entries := p.history.Load(ctx)
	p.mu.Lock()
	p.entries = entries
	p.mu.Unlock()

	p.logger.DebugContext(ctx, "History snapshot refreshed",
		log.FieldOperation, log.OpRefresh, log.FieldCount, len(entries))
}

// Snapshot returns the entries from the most recent refresh, newest
// first.
func (p *HistoryPoller) Snapshot() []history.Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]history.Entry, len(p.entries))
	copy(out, p.entries)
	return out
}
