// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package topic

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"topichub/internal/models"
)

func TestReaperSweep(t *testing.T) {
	topics := newFakeTopics()
	author := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	old := topics.seed(models.Topic{Author: author, Status: models.TopicStatusTemp, CreatedAt: now.Add(-48 * time.Hour)})
	fresh := topics.seed(models.Topic{Author: author, Status: models.TopicStatusTemp, CreatedAt: now.Add(-time.Hour)})
	written := topics.seed(models.Topic{Author: author, Title: ptr("kept"), Status: models.TopicStatusTemp, CreatedAt: now.Add(-48 * time.Hour)})

	r := NewReaper(topics, 24*time.Hour, time.Hour)
	r.now = func() time.Time { return now }

	n, err := r.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 1 {
		t.Errorf("removed = %d, want 1", n)
	}
	if _, ok := topics.rows[old.ID]; ok {
		t.Error("old blank draft should be removed")
	}
	if _, ok := topics.rows[fresh.ID]; !ok {
		t.Error("fresh draft must be kept")
	}
	if _, ok := topics.rows[written.ID]; !ok {
		t.Error("written draft must be kept")
	}
}

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) DeleteAbandonedDrafts(context.Context, time.Time) (int64, error) {
	c.calls.Add(1)
	return 0, c.err
}

func TestReaperRunStopsOnCancel(t *testing.T) {
	sweeper := &countingSweeper{err: errors.New("db down")}
	r := NewReaper(sweeper, time.Hour, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for sweeper.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("reaper did not keep sweeping after a failure")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewReaperNonPositiveInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Minute} {
		if r := NewReaper(newFakeTopics(), time.Hour, interval); r.interval != DefaultReapInterval {
			t.Errorf("NewReaper(%v).interval = %v, want %v", interval, r.interval, DefaultReapInterval)
		}
	}
}
