package scheduler

import (
	"context"
	"log"
	"time"
)

type Task func(ctx context.Context) error

// Every drives a task on a fixed tick until the context is cancelled. The
// first tick fires immediately.
func Every(ctx context.Context, interval time.Duration, name string, task Task) {
	t := time.NewTicker(interval)
	defer t.Stop()

	if err := task(ctx); err != nil {
		log.Printf("[%s] error: %v", name, err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := task(ctx); err != nil {
				log.Printf("[%s] error: %v", name, err)
			}
		}
	}
}

// ShouldRun is the scheduling decision, kept pure so it tests without
// timers: eligible when the interval has elapsed since the last run start.
// A zero lastSyncAt (never ran) counts as infinitely long ago.
func ShouldRun(now, lastSyncAt time.Time, interval time.Duration) bool {
	if lastSyncAt.IsZero() {
		return true
	}
	return now.Sub(lastSyncAt) >= interval
}
