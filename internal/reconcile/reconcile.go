// Package reconcile applies a parsed feed snapshot to the catalog. Every
// operation is an idempotent upsert keyed by external id, so a partially
// failed run followed by a retry converges to the same end state as an
// uninterrupted run.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"carsync-engine/internal/domain"
	"carsync-engine/internal/store"
)

type Result struct {
	Processed int
	Sold      int64
	SyncedIDs map[string]struct{}
}

// Reconcile upserts the vehicles sequentially, additively merges their
// images, then tombstones every feed-managed vehicle absent from this run.
// A failure on one vehicle aborts the remaining items; prior items stay
// committed and the next scheduled run picks up where this one gave up.
func Reconcile(ctx context.Context, db *store.DB, vehicles []domain.CanonicalVehicle, runAt time.Time) (Result, error) {
	res := Result{SyncedIDs: make(map[string]struct{}, len(vehicles))}

	for _, v := range vehicles {
		id, err := db.UpsertVehicleByExternalID(ctx, v, runAt)
		if err != nil {
			return res, err
		}
		if err := mergeImages(ctx, db, id, v.ImageURLs); err != nil {
			return res, fmt.Errorf("vehicle %s: %w", v.ExternalID, err)
		}
		res.SyncedIDs[v.ExternalID] = struct{}{}
		res.Processed++
	}

	sold, err := db.BulkTransitionToSold(ctx, res.SyncedIDs)
	if err != nil {
		return res, err
	}
	res.Sold = sold
	return res, nil
}

// mergeImages appends feed URLs not already in the gallery, in feed order,
// with sort_order continuing from the current count. Existing images are
// never deleted, reordered or re-flagged: the first new image becomes
// primary only when the gallery was empty, so a feed rerun can't clobber a
// hand-curated gallery.
func mergeImages(ctx context.Context, db *store.DB, vehicleID int64, feedURLs []string) error {
	if len(feedURLs) == 0 {
		return nil
	}

	existing, err := db.ListImageURLs(ctx, vehicleID)
	if err != nil {
		return fmt.Errorf("list images: %w", err)
	}
	have := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		have[u] = struct{}{}
	}

	next := len(existing)
	for _, u := range feedURLs {
		if _, ok := have[u]; ok {
			continue
		}
		isPrimary := next == 0
		if err := db.AppendImage(ctx, vehicleID, u, isPrimary, next); err != nil {
			return err
		}
		have[u] = struct{}{}
		next++
	}
	return nil
}
