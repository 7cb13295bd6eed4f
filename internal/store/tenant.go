// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"partshub/internal/models"
)

// TenantStore manages marketplace tenants.
type TenantStore struct {
	db *sql.DB
}

// NewTenantStore returns a new TenantStore.
func NewTenantStore(db *sql.DB) *TenantStore {
	return &TenantStore{db: db}
}

const tenantColumns = `id, name, slug, active, created_at`

func scanTenant(scanner interface{ Scan(...any) error }) (*models.Tenant, error) {
	var t models.Tenant
	if err := scanner.Scan(&t.ID, &t.Name, &t.Slug, &t.Active, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// FindBySlug retrieves an active tenant by its slug. Returns nil if not
// found or inactive.
func (s *TenantStore) FindBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE slug = $1 AND active`, slug)
	t, err := scanTenant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tenant by slug: %w", err)
	}
	return t, nil
}

// FindByID retrieves a tenant by id. Returns nil if not found.
func (s *TenantStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	t, err := scanTenant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tenant by id: %w", err)
	}
	return t, nil
}

// Create inserts a new tenant and returns it.
func (s *TenantStore) Create(ctx context.Context, t *models.Tenant) (*models.Tenant, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO tenants (name, slug, active)
		VALUES ($1, $2, $3)
		RETURNING `+tenantColumns,
		t.Name, t.Slug, t.Active,
	)
	created, err := scanTenant(row)
	if err != nil {
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	return created, nil
}
