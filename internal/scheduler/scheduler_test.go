package scheduler

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"carsync-engine/internal/domain"
	"carsync-engine/internal/syncer"
)

func TestShouldRun(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	interval := 30 * time.Minute

	// never ran: always eligible
	require.True(t, ShouldRun(now, time.Time{}, interval))

	require.False(t, ShouldRun(now, now.Add(-29*time.Minute), interval))
	require.True(t, ShouldRun(now, now.Add(-30*time.Minute), interval))
	require.True(t, ShouldRun(now, now.Add(-2*time.Hour), interval))
}

type fakeSettings map[string]string

func (f fakeSettings) GetSetting(_ context.Context, key string) (string, error) {
	return f[key], nil
}

func (f fakeSettings) GetSettingInt(_ context.Context, key string, def int) (int, error) {
	n, err := strconv.Atoi(f[key])
	if err != nil {
		return def, nil
	}
	return n, nil
}

func TestSyncTickSkipsWithoutFeedURL(t *testing.T) {
	triggered := 0
	tick := SyncTick{
		Settings: fakeSettings{},
		Trigger: func(ctx context.Context) domain.SyncRunResult {
			triggered++
			return domain.SyncRunResult{Success: true}
		},
	}

	require.NoError(t, tick.Run(context.Background()))
	require.Equal(t, 0, triggered)
}

func TestSyncTickRunsWhenDue(t *testing.T) {
	settings := fakeSettings{
		syncer.SettingFeedURL:     "https://dealer.example/feed.xml",
		syncer.SettingIntervalMin: "30",
	}
	triggered := 0
	tick := SyncTick{
		Settings: settings,
		Trigger: func(ctx context.Context) domain.SyncRunResult {
			triggered++
			return domain.SyncRunResult{Success: true}
		},
	}

	// no last_sync_at: due immediately
	require.NoError(t, tick.Run(context.Background()))
	require.Equal(t, 1, triggered)

	// fresh last_sync_at inside the interval: not due
	settings[syncer.SettingLastSyncAt] = time.Now().UTC().Add(-time.Minute).Format(time.RFC3339)
	require.NoError(t, tick.Run(context.Background()))
	require.Equal(t, 1, triggered)

	// interval elapsed: due again
	settings[syncer.SettingLastSyncAt] = time.Now().UTC().Add(-31 * time.Minute).Format(time.RFC3339)
	require.NoError(t, tick.Run(context.Background()))
	require.Equal(t, 2, triggered)

	// shrinking the interval takes effect on the very next tick
	settings[syncer.SettingLastSyncAt] = time.Now().UTC().Add(-10 * time.Minute).Format(time.RFC3339)
	settings[syncer.SettingIntervalMin] = "5"
	require.NoError(t, tick.Run(context.Background()))
	require.Equal(t, 3, triggered)
}
