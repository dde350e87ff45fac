package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"carsync-engine/internal/domain"
)

// Vehicle is a catalog row as served by the API.
type Vehicle struct {
	ID           int64    `json:"id"`
	ExternalID   string   `json:"externalId,omitempty"` // "" for human-entered rows
	Title        string   `json:"title"`
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Variant      string   `json:"variant,omitempty"`
	Year         int      `json:"year"`
	Price        float64  `json:"price"`
	Mileage      int      `json:"mileage"`
	FuelType     string   `json:"fuelType"`
	Transmission string   `json:"transmission"`
	BodyType     string   `json:"bodyType,omitempty"`
	Color        string   `json:"color,omitempty"`
	Features     []string `json:"features"`
	Status       string   `json:"status"`
	ImportedAt   string   `json:"importedAt,omitempty"`
}

// UpsertVehicleByExternalID creates or overwrites the catalog row keyed by
// the vehicle's external id. Every canonical scalar field is written on
// update, status included, and imported_at is stamped with the run time.
// Rows with a NULL external_id can never conflict with this insert.
func (d *DB) UpsertVehicleByExternalID(ctx context.Context, v domain.CanonicalVehicle, importedAt time.Time) (int64, error) {
	features, _ := json.Marshal(append([]string{}, v.Features...))

	var bodyType sql.NullString
	if v.BodyType != "" {
		bodyType = sql.NullString{String: string(v.BodyType), Valid: true}
	}

	stamp := importedAt.UTC().Format(time.RFC3339)

	_, err := d.Pool.ExecContext(ctx, `
INSERT INTO vehicles (
  external_id, title, make, model, variant, year, price, mileage,
  fuel_type, transmission, body_type, engine_capacity, power, color,
  doors, seats, description, features, status, imported_at, created_at
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(external_id) WHERE external_id IS NOT NULL DO UPDATE SET
  title = excluded.title,
  make = excluded.make,
  model = excluded.model,
  variant = excluded.variant,
  year = excluded.year,
  price = excluded.price,
  mileage = excluded.mileage,
  fuel_type = excluded.fuel_type,
  transmission = excluded.transmission,
  body_type = excluded.body_type,
  engine_capacity = excluded.engine_capacity,
  power = excluded.power,
  color = excluded.color,
  doors = excluded.doors,
  seats = excluded.seats,
  description = excluded.description,
  features = excluded.features,
  status = excluded.status,
  imported_at = excluded.imported_at;`,
		v.ExternalID, v.Title, v.Make, v.Model, v.Variant, v.Year, v.Price, v.Mileage,
		string(v.FuelType), string(v.Transmission), bodyType, v.EngineCapacity, v.Power, v.Color,
		v.Doors, v.Seats, v.Description, string(features), string(v.Status), stamp, stamp,
	)
	if err != nil {
		return 0, fmt.Errorf("upsert vehicle %s: %w", v.ExternalID, err)
	}

	var id int64
	if err := d.Pool.QueryRowContext(ctx,
		`SELECT id FROM vehicles WHERE external_id = ?;`, v.ExternalID).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert vehicle %s: read back id: %w", v.ExternalID, err)
	}
	return id, nil
}

// BulkTransitionToSold marks every feed-managed vehicle absent from the
// current run as SOLD. Rows with a NULL external_id (human-entered) and rows
// already SOLD are left alone, so reruns are idempotent.
func (d *DB) BulkTransitionToSold(ctx context.Context, excludeExternalIDs map[string]struct{}) (int64, error) {
	ids := make([]string, 0, len(excludeExternalIDs))
	for id := range excludeExternalIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	query := `
UPDATE vehicles
SET status = 'SOLD'
WHERE external_id IS NOT NULL
  AND status IN ('AVAILABLE', 'RESERVED')`
	args := make([]any, 0, len(ids))
	if len(ids) > 0 {
		query += fmt.Sprintf("\n  AND external_id NOT IN (%s)", placeholders(len(ids)))
		for _, id := range ids {
			args = append(args, id)
		}
	}

	res, err := d.Pool.ExecContext(ctx, query+";", args...)
	if err != nil {
		return 0, fmt.Errorf("bulk transition to sold: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

type ListVehiclesOpts struct {
	Sort   string // imported | price | year | make
	Status string // AVAILABLE | RESERVED | SOLD | ""
	Limit  int
}

func (d *DB) ListVehicles(ctx context.Context, opts ListVehiclesOpts) ([]Vehicle, error) {
	// whitelist sort columns (prevents SQL injection)
	sortCol := map[string]string{
		"imported": "imported_at DESC",
		"price":    "price ASC",
		"year":     "year DESC",
		"make":     "make ASC, model ASC",
	}[opts.Sort]
	if sortCol == "" {
		sortCol = "imported_at DESC"
	}
	if opts.Limit <= 0 || opts.Limit > 2000 {
		opts.Limit = 500
	}

	where := ""
	args := []any{}
	switch opts.Status {
	case string(domain.StatusAvailable), string(domain.StatusReserved), string(domain.StatusSold):
		where = "WHERE status = ?"
		args = append(args, opts.Status)
	}
	args = append(args, opts.Limit)

	query := fmt.Sprintf(`
SELECT id, external_id, title, make, model, variant, year, price, mileage,
       fuel_type, transmission, body_type, color, features, status, imported_at
FROM vehicles
%s
ORDER BY %s
LIMIT ?;`, where, sortCol)

	rows, err := d.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		var v Vehicle
		var externalID, bodyType, importedAt sql.NullString
		var featuresJSON string
		if err := rows.Scan(
			&v.ID, &externalID, &v.Title, &v.Make, &v.Model, &v.Variant, &v.Year,
			&v.Price, &v.Mileage, &v.FuelType, &v.Transmission, &bodyType,
			&v.Color, &featuresJSON, &v.Status, &importedAt,
		); err != nil {
			return nil, err
		}
		v.ExternalID = externalID.String
		v.BodyType = bodyType.String
		v.ImportedAt = importedAt.String
		_ = json.Unmarshal([]byte(featuresJSON), &v.Features)
		if v.Features == nil {
			v.Features = []string{}
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (d *DB) CountVehicles(ctx context.Context) (int, error) {
	var n int
	err := d.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles;`).Scan(&n)
	return n, err
}
