package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"carsync-engine/internal/config"
	"carsync-engine/internal/events"
	"carsync-engine/internal/feed"
	"carsync-engine/internal/httpapi"
	"carsync-engine/internal/scheduler"
	"carsync-engine/internal/store"
	"carsync-engine/internal/syncer"
)

// The scheduler ticks once a minute; each tick re-reads the interval from
// the settings store and decides whether a run is due.
const tickInterval = time.Minute

func main() {
	dataDir := os.Getenv("CARSYNC_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// The single-flight lock lives in process memory only, so two engine
	// processes against one catalog would race each other. Refuse to start
	// a second instance on the same data dir.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock data dir: %v", err)
	}
	if !locked {
		log.Fatalf("another engine instance is already running on %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	db, err := store.Open(filepath.Join(dataDir, "carsync.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	fetcher := feed.NewFetcher(
		time.Duration(cfg.Feed.TimeoutSeconds)*time.Second,
		cfg.Feed.UserAgent,
		cfg.Feed.RequestsPerSec,
		cfg.Feed.Burst,
	)
	sync := syncer.New(db, hub, fetcher.Fetch)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A crash mid-run leaves last_sync_status=running in the store; the
	// in-memory lock always restarts free, so clear it before scheduling.
	sync.RecoverStaleStatus(ctx)

	mux := httpapi.NewMux(httpapi.Deps{
		DB:          db,
		Hub:         hub,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		TriggerSync: sync.TriggerRun,
		SyncStatus:  sync.Status,
	})

	handler := httpapi.Chain(mux,
		httpapi.RequestID,
		httpapi.Recover,
		httpapi.AccessLog,
		httpapi.Cors,
	)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (data=%s)", addr, dataDir)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	tick := scheduler.SyncTick{Settings: db, Trigger: sync.TriggerRun}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scheduler.Every(gctx, tickInterval, "scheduler", tick.Run)
		return nil
	})
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
