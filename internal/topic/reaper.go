// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package topic

import (
	"context"
	"log/slog"
	"time"
)

// DraftSweeper deletes never-written drafts. *store.TopicStore satisfies it.
type DraftSweeper interface {
	DeleteAbandonedDrafts(ctx context.Context, cutoff time.Time) (int64, error)
}

// Reaper periodically removes drafts that were created but never written
// to, such as when a user opens the editor and leaves.
type Reaper struct {
	drafts   DraftSweeper
	maxAge   time.Duration
	interval time.Duration
	now      func() time.Time
}

// DefaultReapInterval is used when NewReaper is given a non-positive
// interval.
const DefaultReapInterval = time.Hour

// NewReaper creates a Reaper removing blank drafts older than maxAge every
// interval.
func NewReaper(drafts DraftSweeper, maxAge, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = DefaultReapInterval
	}
	return &Reaper{drafts: drafts, maxAge: maxAge, interval: interval, now: time.Now}
}

// Sweep runs one cleanup pass and returns the number of drafts removed.
func (r *Reaper) Sweep(ctx context.Context) (int64, error) {
	n, err := r.drafts.DeleteAbandonedDrafts(ctx, r.now().Add(-r.maxAge))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("abandoned drafts removed", "count", n)
	}
	return n, nil
}

// Run sweeps immediately and then on every tick until ctx is cancelled.
// Sweep failures are logged and retried on the next tick.
func (r *Reaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.Sweep(ctx); err != nil && ctx.Err() == nil {
			slog.Error("draft reaper sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
