package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"carsync-engine/internal/domain"
	"carsync-engine/internal/syncer"
)

// Settings is the slice of the settings store the tick needs. The interval
// is re-read on every tick, so a configuration change takes effect within
// one tick period without a restart.
type Settings interface {
	GetSetting(ctx context.Context, key string) (string, error)
	GetSettingInt(ctx context.Context, key string, def int) (int, error)
}

// SyncTick decides, from dynamic configuration, whether this tick should
// trigger a run. It never mutates anything itself; all mutation goes
// through the trigger.
type SyncTick struct {
	Settings Settings
	Trigger  func(ctx context.Context) domain.SyncRunResult
}

func (t SyncTick) Run(ctx context.Context) error {
	feedURL, err := t.Settings.GetSetting(ctx, syncer.SettingFeedURL)
	if err != nil {
		return fmt.Errorf("read feed url: %w", err)
	}
	if strings.TrimSpace(feedURL) == "" {
		return nil
	}

	intervalMin, err := t.Settings.GetSettingInt(ctx, syncer.SettingIntervalMin, syncer.DefaultIntervalMinutes)
	if err != nil {
		return fmt.Errorf("read interval: %w", err)
	}
	if intervalMin <= 0 {
		intervalMin = syncer.DefaultIntervalMinutes
	}

	var lastAt time.Time
	if raw, err := t.Settings.GetSetting(ctx, syncer.SettingLastSyncAt); err == nil && raw != "" {
		// unparsable timestamp stays zero and the run goes ahead
		lastAt, _ = time.Parse(time.RFC3339, raw)
	}

	if !ShouldRun(time.Now().UTC(), lastAt, time.Duration(intervalMin)*time.Minute) {
		return nil
	}

	res := t.Trigger(ctx)
	if !res.Success {
		// the run already persisted its status; just note it here
		log.Printf("[scheduler] run did not succeed: %s", res.Message)
	}
	return nil
}
