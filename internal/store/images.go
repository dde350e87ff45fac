package store

import (
	"context"
	"fmt"
)

// ListImageURLs returns a vehicle's gallery in sort order.
func (d *DB) ListImageURLs(ctx context.Context, vehicleID int64) ([]string, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT url FROM vehicle_images
WHERE vehicle_id = ?
ORDER BY sort_order, id;`, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (d *DB) CountImages(ctx context.Context, vehicleID int64) (int, error) {
	var n int
	err := d.Pool.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vehicle_images WHERE vehicle_id = ?;`, vehicleID).Scan(&n)
	return n, err
}

// AppendImage adds one gallery row. The unique (vehicle_id, url) index is
// the last line of defense against duplicates; the reconciler checks first.
func (d *DB) AppendImage(ctx context.Context, vehicleID int64, url string, isPrimary bool, sortOrder int) error {
	primary := 0
	if isPrimary {
		primary = 1
	}
	_, err := d.Pool.ExecContext(ctx, `
INSERT OR IGNORE INTO vehicle_images (vehicle_id, url, is_primary, sort_order)
VALUES (?, ?, ?, ?);`, vehicleID, url, primary, sortOrder)
	if err != nil {
		return fmt.Errorf("append image: %w", err)
	}
	return nil
}
