// Package syncer coordinates one feed synchronization run: single-flight
// guard, fetch, parse, reconcile, persisted status. All failure inside a run
// is converted to status here; nothing propagates to the scheduler.
package syncer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"carsync-engine/internal/domain"
	"carsync-engine/internal/events"
	"carsync-engine/internal/feed"
	"carsync-engine/internal/reconcile"
	"carsync-engine/internal/secrets"
	"carsync-engine/internal/store"
)

// Settings-store keys owned or read by the sync engine.
const (
	SettingFeedURL        = "xml_feed_url"
	SettingIntervalMin    = "sync_interval_minutes"
	SettingLastSyncAt     = "last_sync_at"
	SettingLastSyncStatus = "last_sync_status"
	SettingLastSyncMsg    = "last_sync_message"
	SettingLastSyncCount  = "last_sync_count"
	SettingFeedAuthUser   = "feed_auth_username"
)

const DefaultIntervalMinutes = 30

// Persisted run states.
const (
	StateIdle    = "idle"
	StateRunning = "running"
	StateSuccess = "success"
	StateError   = "error"
)

type FetchFunc func(ctx context.Context, url string, creds *feed.Credentials) ([]byte, error)

type Syncer struct {
	db    *store.DB
	hub   *events.Hub
	fetch FetchFunc

	// keyring lookup, injected so tests don't touch the OS keychain
	password func(username string) (string, error)

	// single-flight flag; held in process memory only, so a second engine
	// instance against the same catalog is NOT protected by this
	running atomic.Bool
}

func New(db *store.DB, hub *events.Hub, fetch FetchFunc) *Syncer {
	return &Syncer{
		db:       db,
		hub:      hub,
		fetch:    fetch,
		password: secrets.GetFeedPassword,
	}
}

// TriggerRun executes one fetch/parse/reconcile pass. While a run is in
// flight, further calls return immediately with success=false and do not
// touch persisted status; this is a single-flight, not a work queue.
func (s *Syncer) TriggerRun(ctx context.Context) domain.SyncRunResult {
	runAt := time.Now().UTC()

	if !s.running.CompareAndSwap(false, true) {
		return domain.SyncRunResult{
			Success:  false,
			Message:  "sync already in progress",
			SyncedAt: runAt,
		}
	}
	defer s.running.Store(false)

	s.publish("sync_started", map[string]any{"at": runAt.Format(time.RFC3339)})
	res := s.run(ctx, runAt)
	s.publish("sync_finished", res)
	return res
}

func (s *Syncer) run(ctx context.Context, runAt time.Time) domain.SyncRunResult {
	s.persist(ctx, StateRunning, "sync started", 0)
	s.set(ctx, SettingLastSyncAt, runAt.Format(time.RFC3339))

	feedURL, err := s.db.GetSetting(ctx, SettingFeedURL)
	if err != nil {
		return s.fail(ctx, runAt, 0, fmt.Errorf("read feed url setting: %w", err))
	}
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		// a configuration state, not an error: nothing to fetch
		msg := "no feed url configured"
		s.persist(ctx, StateIdle, msg, 0)
		return domain.SyncRunResult{Success: false, Message: msg, SyncedAt: runAt}
	}

	data, err := s.fetch(ctx, feedURL, s.credentials(ctx))
	if err != nil {
		return s.fail(ctx, runAt, 0, err)
	}

	vehicles, skipped, err := feed.ParseFeed(data)
	if err != nil {
		return s.fail(ctx, runAt, 0, err)
	}

	rec, err := reconcile.Reconcile(ctx, s.db, vehicles, runAt)
	if err != nil {
		return s.fail(ctx, runAt, rec.Processed, err)
	}

	msg := fmt.Sprintf("imported %d vehicles, skipped %d items, marked %d sold",
		rec.Processed, skipped, rec.Sold)
	s.persist(ctx, StateSuccess, msg, rec.Processed)
	log.Printf("[sync] ok %s", msg)

	return domain.SyncRunResult{
		Success:  true,
		Count:    rec.Processed,
		Skipped:  skipped,
		Message:  msg,
		SyncedAt: runAt,
	}
}

func (s *Syncer) fail(ctx context.Context, runAt time.Time, count int, err error) domain.SyncRunResult {
	log.Printf("[sync] error: %v", err)
	s.persist(ctx, StateError, err.Error(), count)
	return domain.SyncRunResult{
		Success:  false,
		Count:    count,
		Message:  err.Error(),
		SyncedAt: runAt,
	}
}

// credentials resolves optional basic auth: username from settings, password
// from the OS keyring. A missing password logs and falls back to anonymous.
func (s *Syncer) credentials(ctx context.Context) *feed.Credentials {
	username, err := s.db.GetSetting(ctx, SettingFeedAuthUser)
	if err != nil || strings.TrimSpace(username) == "" {
		return nil
	}
	pw, err := s.password(username)
	if err != nil {
		log.Printf("[sync] feed password lookup failed for %q: %v", username, err)
		return nil
	}
	return &feed.Credentials{Username: username, Password: pw}
}

// persist writes the status triple; settings-store write failures are logged
// rather than failing the run over bookkeeping.
func (s *Syncer) persist(ctx context.Context, state, msg string, count int) {
	s.set(ctx, SettingLastSyncStatus, state)
	s.set(ctx, SettingLastSyncMsg, msg)
	s.set(ctx, SettingLastSyncCount, fmt.Sprintf("%d", count))
}

func (s *Syncer) set(ctx context.Context, key, value string) {
	if err := s.db.SetSetting(ctx, key, value); err != nil {
		log.Printf("[sync] persist %s: %v", key, err)
	}
}

func (s *Syncer) publish(typ string, data any) {
	if s.hub != nil {
		s.hub.Publish(events.MakeEvent(typ, data))
	}
}
