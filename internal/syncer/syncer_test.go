package syncer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"carsync-engine/internal/feed"
	"carsync-engine/internal/store"
)

func newTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())
	return db
}

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<offers>
  <offer id="42">
    <brand>Škoda</brand>
    <model>Octavia</model>
    <cena>15 000</cena>
    <palivo>nafta</palivo>
  </offer>
  <offer><brand>Seat</brand><model>Leon</model></offer>
</offers>`

func TestTriggerRunSuccess(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML)
	}))
	defer srv.Close()
	require.NoError(t, db.SetSetting(ctx, SettingFeedURL, srv.URL))

	fetcher := feed.NewFetcher(0, "test-agent", 100, 100)
	s := New(db, nil, fetcher.Fetch)

	res := s.TriggerRun(ctx)
	require.True(t, res.Success)
	require.Equal(t, 1, res.Count)
	require.Equal(t, 1, res.Skipped)
	require.Contains(t, res.Message, "imported 1 vehicles")
	require.Contains(t, res.Message, "skipped 1 items")

	st, err := s.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, StateSuccess, st.Status)
	require.Equal(t, 1, st.LastCount)
	require.NotEmpty(t, st.LastAt)
	require.False(t, st.Running)

	n, err := db.CountVehicles(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestTriggerRunWithoutFeedURLIsIdle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s := New(db, nil, func(ctx context.Context, url string, creds *feed.Credentials) ([]byte, error) {
		t.Fatal("fetch must not be called without a feed url")
		return nil, nil
	})

	res := s.TriggerRun(ctx)
	require.False(t, res.Success)
	require.Equal(t, "no feed url configured", res.Message)

	st, err := s.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, StateIdle, st.Status)
}

func TestTriggerRunFetchFailurePersistsError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()
	require.NoError(t, db.SetSetting(ctx, SettingFeedURL, srv.URL))

	fetcher := feed.NewFetcher(0, "test-agent", 100, 100)
	s := New(db, nil, fetcher.Fetch)

	res := s.TriggerRun(ctx)
	require.False(t, res.Success)
	require.Contains(t, res.Message, "feed status 500")

	st, err := s.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, StateError, st.Status)
	require.Contains(t, st.Message, "feed status 500")
}

func TestTriggerRunMalformedFeedPersistsError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.SetSetting(ctx, SettingFeedURL, "https://dealer.example/feed.xml"))

	s := New(db, nil, func(ctx context.Context, url string, creds *feed.Credentials) ([]byte, error) {
		return []byte(`<offers><offer id="1"`), nil
	})

	res := s.TriggerRun(ctx)
	require.False(t, res.Success)
	require.Contains(t, res.Message, "malformed xml")

	st, err := s.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, StateError, st.Status)
}

func TestTriggerRunSingleFlight(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.SetSetting(ctx, SettingFeedURL, "https://dealer.example/feed.xml"))

	started := make(chan struct{})
	release := make(chan struct{})
	var startedOnce sync.Once
	s := New(db, nil, func(ctx context.Context, url string, creds *feed.Credentials) ([]byte, error) {
		startedOnce.Do(func() { close(started) })
		<-release
		return []byte(feedXML), nil
	})

	first := make(chan struct{})
	var firstRes bool
	go func() {
		defer close(first)
		firstRes = s.TriggerRun(ctx).Success
	}()

	<-started
	// second trigger while the first run holds the flag: immediate rejection
	res := s.TriggerRun(ctx)
	require.False(t, res.Success)
	require.Equal(t, 0, res.Count)
	require.Equal(t, "sync already in progress", res.Message)

	close(release)
	<-first
	require.True(t, firstRes)

	// the flag is released after the run, so a new trigger goes through
	res = s.TriggerRun(ctx)
	require.True(t, res.Success)
}

func TestCredentialsFromSettingsAndKeyring(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.SetSetting(ctx, SettingFeedURL, "https://dealer.example/feed.xml"))
	require.NoError(t, db.SetSetting(ctx, SettingFeedAuthUser, "dealer"))

	var gotCreds *feed.Credentials
	s := New(db, nil, func(ctx context.Context, url string, creds *feed.Credentials) ([]byte, error) {
		gotCreds = creds
		return []byte(`<offers></offers>`), nil
	})
	s.password = func(username string) (string, error) {
		require.Equal(t, "dealer", username)
		return "hunter2", nil
	}

	res := s.TriggerRun(ctx)
	require.True(t, res.Success)
	require.NotNil(t, gotCreds)
	require.Equal(t, "dealer", gotCreds.Username)
	require.Equal(t, "hunter2", gotCreds.Password)
}

func TestCredentialsMissingPasswordFallsBackToAnonymous(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.SetSetting(ctx, SettingFeedURL, "https://dealer.example/feed.xml"))
	require.NoError(t, db.SetSetting(ctx, SettingFeedAuthUser, "dealer"))

	var gotCreds *feed.Credentials
	s := New(db, nil, func(ctx context.Context, url string, creds *feed.Credentials) ([]byte, error) {
		gotCreds = creds
		return []byte(`<offers></offers>`), nil
	})
	s.password = func(username string) (string, error) {
		return "", errors.New("secret not found in keyring")
	}

	res := s.TriggerRun(ctx)
	require.True(t, res.Success)
	require.Nil(t, gotCreds)
}

func TestRecoverStaleStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// simulate a process that died mid-run
	require.NoError(t, db.SetSetting(ctx, SettingLastSyncStatus, StateRunning))

	s := New(db, nil, nil)
	s.RecoverStaleStatus(ctx)

	st, err := s.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, StateError, st.Status)
	require.Equal(t, "previous sync interrupted by restart", st.Message)

	// success status is left alone
	require.NoError(t, db.SetSetting(ctx, SettingLastSyncStatus, StateSuccess))
	s.RecoverStaleStatus(ctx)
	st, err = s.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, StateSuccess, st.Status)
}
