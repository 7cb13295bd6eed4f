// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"partshub/internal/models"
)

// SiteSettingStore manages per-tenant configuration in the database.
type SiteSettingStore struct {
	db *sql.DB
}

// NewSiteSettingStore returns a new SiteSettingStore backed by the given database.
func NewSiteSettingStore(db *sql.DB) *SiteSettingStore {
	return &SiteSettingStore{db: db}
}

// All returns a tenant's settings as a convenience map, layered over the
// built-in defaults so callers always see a complete configuration.
func (s *SiteSettingStore) All(ctx context.Context, tenantID uuid.UUID) (models.SiteSettings, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM site_settings WHERE tenant_id = $1 ORDER BY key`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := models.DefaultSettings()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		settings[k] = v
	}
	return settings, rows.Err()
}

// Get returns a single setting by key, or the fallback if not found.
func (s *SiteSettingStore) Get(ctx context.Context, tenantID uuid.UUID, key, fallback string) (string, error) {
	var val string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM site_settings WHERE tenant_id = $1 AND key = $2`,
		tenantID, key).Scan(&val)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	if val == "" {
		return fallback, nil
	}
	return val, nil
}

// SetMany upserts multiple settings in a single transaction.
func (s *SiteSettingStore) SetMany(ctx context.Context, tenantID uuid.UUID, settings map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO site_settings (tenant_id, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for k, v := range settings {
		if _, err := stmt.ExecContext(ctx, tenantID, k, v, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}
