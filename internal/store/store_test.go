package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"carsync-engine/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())
	return db
}

func TestSettingsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	v, err := db.GetSetting(ctx, "xml_feed_url")
	require.NoError(t, err)
	require.Equal(t, "", v)

	require.NoError(t, db.SetSetting(ctx, "xml_feed_url", "https://dealer.example/feed.xml"))
	require.NoError(t, db.SetSetting(ctx, "xml_feed_url", "https://dealer.example/feed2.xml"))

	v, err = db.GetSetting(ctx, "xml_feed_url")
	require.NoError(t, err)
	require.Equal(t, "https://dealer.example/feed2.xml", v)
}

func TestGetSettingIntDefaults(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	n, err := db.GetSettingInt(ctx, "sync_interval_minutes", 30)
	require.NoError(t, err)
	require.Equal(t, 30, n)

	require.NoError(t, db.SetSetting(ctx, "sync_interval_minutes", "garbage"))
	n, err = db.GetSettingInt(ctx, "sync_interval_minutes", 30)
	require.NoError(t, err)
	require.Equal(t, 30, n)

	require.NoError(t, db.SetSetting(ctx, "sync_interval_minutes", "15"))
	n, err = db.GetSettingInt(ctx, "sync_interval_minutes", 30)
	require.NoError(t, err)
	require.Equal(t, 15, n)
}

func testVehicle(externalID string) domain.CanonicalVehicle {
	return domain.CanonicalVehicle{
		ExternalID:   externalID,
		Title:        "Škoda Octavia",
		Make:         "Škoda",
		Model:        "Octavia",
		Year:         2020,
		Price:        15000,
		Mileage:      42000,
		FuelType:     domain.FuelDiesel,
		Transmission: domain.TransmissionManual,
		Status:       domain.StatusAvailable,
	}
}

func TestUpsertVehicleCreateThenOverwrite(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	runAt := time.Now().UTC()

	id1, err := db.UpsertVehicleByExternalID(ctx, testVehicle("42"), runAt)
	require.NoError(t, err)

	v := testVehicle("42")
	v.Price = 13900
	v.Status = domain.StatusReserved
	v.BodyType = domain.BodyEstate
	id2, err := db.UpsertVehicleByExternalID(ctx, v, runAt.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, id1, id2, "same external id must hit the same row")

	list, err := db.ListVehicles(ctx, ListVehiclesOpts{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 13900.0, list[0].Price)
	require.Equal(t, string(domain.StatusReserved), list[0].Status)
	require.Equal(t, string(domain.BodyEstate), list[0].BodyType)

	n, err := db.CountVehicles(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestBulkTransitionToSold(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	runAt := time.Now().UTC()

	_, err := db.UpsertVehicleByExternalID(ctx, testVehicle("keep"), runAt)
	require.NoError(t, err)
	_, err = db.UpsertVehicleByExternalID(ctx, testVehicle("gone"), runAt)
	require.NoError(t, err)

	// human-entered row: NULL external_id, must never be touched
	_, err = db.Pool.ExecContext(ctx, `
INSERT INTO vehicles (external_id, make, model, status, created_at)
VALUES (NULL, 'Fiat', '500', 'AVAILABLE', ?);`, runAt.Format(time.RFC3339))
	require.NoError(t, err)

	n, err := db.BulkTransitionToSold(ctx, map[string]struct{}{"keep": {}})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	statuses := map[string]string{}
	rows, err := db.Pool.QueryContext(ctx, `SELECT COALESCE(external_id, 'human'), status FROM vehicles;`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var id, status string
		require.NoError(t, rows.Scan(&id, &status))
		statuses[id] = status
	}
	require.NoError(t, rows.Err())

	require.Equal(t, "AVAILABLE", statuses["keep"])
	require.Equal(t, "SOLD", statuses["gone"])
	require.Equal(t, "AVAILABLE", statuses["human"])

	// second pass is a no-op: already-SOLD rows stay put
	n, err = db.BulkTransitionToSold(ctx, map[string]struct{}{"keep": {}})
	require.NoError(t, err)
	require.Equal(t, int64(0), n)
}

func TestAppendAndListImages(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	id, err := db.UpsertVehicleByExternalID(ctx, testVehicle("42"), time.Now().UTC())
	require.NoError(t, err)

	require.NoError(t, db.AppendImage(ctx, id, "https://img.example/a.jpg", true, 0))
	require.NoError(t, db.AppendImage(ctx, id, "https://img.example/b.jpg", false, 1))
	// duplicate URL is swallowed by the unique index
	require.NoError(t, db.AppendImage(ctx, id, "https://img.example/a.jpg", false, 2))

	urls, err := db.ListImageURLs(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []string{"https://img.example/a.jpg", "https://img.example/b.jpg"}, urls)

	n, err := db.CountImages(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}
