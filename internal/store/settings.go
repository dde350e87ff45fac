package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
)

// GetSetting returns "" for an absent key; absence and emptiness mean the
// same thing to every consumer of the settings table.
func (d *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var v string
	err := d.Pool.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?;`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (d *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := d.Pool.ExecContext(ctx, `
INSERT INTO settings (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, key, value)
	return err
}

// GetSettingInt falls back to def when the key is absent or unparsable.
func (d *DB) GetSettingInt(ctx context.Context, key string, def int) (int, error) {
	raw, err := d.GetSetting(ctx, key)
	if err != nil {
		return def, err
	}
	n, perr := strconv.Atoi(strings.TrimSpace(raw))
	if perr != nil {
		return def, nil
	}
	return n, nil
}
