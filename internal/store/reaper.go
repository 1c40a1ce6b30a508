package store

import (
	"context"
	"log/slog"
	"time"
)

// DefaultReapInterval is the tick at which the reaper sweeps due keys.
const DefaultReapInterval = time.Second

// Reaper proactively deletes records whose expiration instant has passed.
// It is purely a memory-reclamation optimization: lazy expiry on Get keeps
// reads correct even if the reaper never runs. All mutation goes through
// Engine.Reap and therefore through the engine mutex.
type Reaper struct {
	engine   *Engine
	interval time.Duration
}

// NewReaper returns a reaper ticking at interval. Non-positive intervals
// fall back to DefaultReapInterval.
func NewReaper(engine *Engine, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = DefaultReapInterval
	}
	return &Reaper{engine: engine, interval: interval}
}

// Run sweeps on every tick until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.engine.Reap(); n > 0 {
				slog.Debug("reaped expired keys", "count", n)
			}
		}
	}
}
