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

// FieldStore manages the product field registry and the per-context
// display configuration rows.
type FieldStore struct {
	db *sql.DB
}

// NewFieldStore returns a new FieldStore.
func NewFieldStore(db *sql.DB) *FieldStore {
	return &FieldStore{db: db}
}

const fieldColumns = `id, tenant_id, name, label, type, required, options, default_value, active, created_at`
const displayColumns = `id, tenant_id, field_name, field_type, display_name, show_in_catalog, show_in_product, catalog_order, product_order`

// scanField scans a row into a ProductField. Options are stored as a
// Postgres text array.
func scanField(scanner interface{ Scan(...any) error }) (*models.ProductField, error) {
	var f models.ProductField
	var options []byte
	err := scanner.Scan(
		&f.ID, &f.TenantID, &f.Name, &f.Label, &f.Type, &f.Required,
		&options, &f.DefaultValue, &f.Active, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.Options = decodeTextArray(options)
	return &f, nil
}

func scanDisplay(scanner interface{ Scan(...any) error }) (*models.ProductFieldDisplay, error) {
	var d models.ProductFieldDisplay
	err := scanner.Scan(
		&d.ID, &d.TenantID, &d.FieldName, &d.FieldType, &d.DisplayName,
		&d.ShowInCatalog, &d.ShowInProduct, &d.CatalogOrder, &d.ProductOrder,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListFields returns a tenant's custom fields, optionally including
// deactivated ones for the admin view.
func (s *FieldStore) ListFields(ctx context.Context, tenantID uuid.UUID, includeInactive bool) ([]models.ProductField, error) {
	query := `SELECT ` + fieldColumns + ` FROM product_fields WHERE tenant_id = $1`
	if !includeInactive {
		query += ` AND active`
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	defer rows.Close()

	var items []models.ProductField
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

// FindFieldByID retrieves a custom field by id. Returns nil if not found.
func (s *FieldStore) FindFieldByID(ctx context.Context, tenantID uuid.UUID, id int64) (*models.ProductField, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fieldColumns+` FROM product_fields WHERE tenant_id = $1 AND id = $2`,
		tenantID, id)
	f, err := scanField(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find field by id: %w", err)
	}
	return f, nil
}

// CreateField inserts a custom field and its paired display row in one
// transaction. The display row is appended after the highest existing
// order in both contexts. A duplicate machine name (per tenant) is
// refused with models.ErrDuplicateFieldName.
func (s *FieldStore) CreateField(ctx context.Context, f *models.ProductField) (*models.ProductField, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM product_fields WHERE tenant_id = $1 AND name = $2)
		    OR EXISTS(SELECT 1 FROM product_field_display WHERE tenant_id = $1 AND field_name = $2)`,
		f.TenantID, f.Name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check field name: %w", err)
	}
	if exists {
		return nil, models.ErrDuplicateFieldName
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO product_fields (tenant_id, name, label, type, required, options, default_value, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING `+fieldColumns,
		f.TenantID, f.Name, f.Label, f.Type, f.Required, encodeTextArray(f.Options), f.DefaultValue,
	)
	created, err := scanField(row)
	if err != nil {
		return nil, fmt.Errorf("create field: %w", err)
	}

	var nextCatalog, nextProduct int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(catalog_order), 0) + 1, COALESCE(MAX(product_order), 0) + 1
		FROM product_field_display WHERE tenant_id = $1`,
		f.TenantID).Scan(&nextCatalog, &nextProduct)
	if err != nil {
		return nil, fmt.Errorf("next display order: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO product_field_display
			(tenant_id, field_name, field_type, display_name, show_in_catalog, show_in_product, catalog_order, product_order)
		VALUES ($1, $2, $3, $4, FALSE, TRUE, $5, $6)`,
		f.TenantID, f.Name, models.FieldKindCustom, f.Label, nextCatalog, nextProduct,
	)
	if err != nil {
		return nil, fmt.Errorf("create display row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create field: %w", err)
	}
	return created, nil
}

// UpdateField edits a custom field's label, type, required flag, options,
// and default value. The machine name is immutable: a differing name in
// the payload is refused with models.ErrFieldNameImmutable.
func (s *FieldStore) UpdateField(ctx context.Context, f *models.ProductField) (*models.ProductField, error) {
	existing, err := s.FindFieldByID(ctx, f.TenantID, f.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, sql.ErrNoRows
	}
	if f.Name != "" && f.Name != existing.Name {
		return nil, models.ErrFieldNameImmutable
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		UPDATE product_fields SET
			label = $1, type = $2, required = $3, options = $4, default_value = $5
		WHERE tenant_id = $6 AND id = $7
		RETURNING `+fieldColumns,
		f.Label, f.Type, f.Required, encodeTextArray(f.Options), f.DefaultValue,
		f.TenantID, f.ID,
	)
	updated, err := scanField(row)
	if err != nil {
		return nil, fmt.Errorf("update field: %w", err)
	}

	// Keep the display label in sync with the registry label.
	_, err = tx.ExecContext(ctx, `
		UPDATE product_field_display SET display_name = $1
		WHERE tenant_id = $2 AND field_name = $3`,
		f.Label, f.TenantID, existing.Name,
	)
	if err != nil {
		return nil, fmt.Errorf("update display name: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update field: %w", err)
	}
	return updated, nil
}

// SetFieldActive soft-deletes or restores a custom field without touching
// its id or display configuration.
func (s *FieldStore) SetFieldActive(ctx context.Context, tenantID uuid.UUID, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE product_fields SET active = $1 WHERE tenant_id = $2 AND id = $3`,
		active, tenantID, id)
	if err != nil {
		return fmt.Errorf("set field active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteField hard-deletes a custom field together with its display row
// and any stored product values, in one transaction.
func (s *FieldStore) DeleteField(ctx context.Context, tenantID uuid.UUID, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var name string
	err = tx.QueryRowContext(ctx,
		`SELECT name FROM product_fields WHERE tenant_id = $1 AND id = $2`,
		tenantID, id).Scan(&name)
	if err == sql.ErrNoRows {
		return sql.ErrNoRows
	}
	if err != nil {
		return fmt.Errorf("find field: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM product_field_values WHERE field_name = $1 AND product_id IN (SELECT id FROM products WHERE tenant_id = $2)`,
		name, tenantID); err != nil {
		return fmt.Errorf("delete field values: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM product_field_display WHERE tenant_id = $1 AND field_name = $2`,
		tenantID, name); err != nil {
		return fmt.Errorf("delete display row: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM product_fields WHERE tenant_id = $1 AND id = $2`,
		tenantID, id); err != nil {
		return fmt.Errorf("delete field: %w", err)
	}

	return tx.Commit()
}

// ListDisplays returns every display row for a tenant, sorted for ctx.
func (s *FieldStore) ListDisplays(ctx context.Context, tenantID uuid.UUID, display models.DisplayContext) ([]models.ProductFieldDisplay, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+displayColumns+` FROM product_field_display WHERE tenant_id = $1`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list displays: %w", err)
	}
	defer rows.Close()

	var items []models.ProductFieldDisplay
	for rows.Next() {
		d, err := scanDisplay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan display: %w", err)
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	models.SortDisplays(items, display)
	return items, nil
}

// ListVisible returns the display rows shown in ctx, already sorted. This
// is what the storefront consumes to decide which columns to render.
func (s *FieldStore) ListVisible(ctx context.Context, tenantID uuid.UUID, display models.DisplayContext) ([]models.ProductFieldDisplay, error) {
	all, err := s.ListDisplays(ctx, tenantID, display)
	if err != nil {
		return nil, err
	}
	visible := all[:0:0]
	for _, d := range all {
		if d.Shown(display) {
			visible = append(visible, d)
		}
	}
	return visible, nil
}

// FindDisplayByID retrieves one display row. Returns nil if not found.
func (s *FieldStore) FindDisplayByID(ctx context.Context, tenantID uuid.UUID, id int64) (*models.ProductFieldDisplay, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+displayColumns+` FROM product_field_display WHERE tenant_id = $1 AND id = $2`,
		tenantID, id)
	d, err := scanDisplay(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find display by id: %w", err)
	}
	return d, nil
}

// EnsureSystemFields seeds the fixed system field display rows for a
// tenant. Idempotence is per-field: each name is checked for an existing
// row before inserting, so a partially seeded tenant is repaired rather
// than duplicated. Safe to call on every admin page load. All inserts
// share one transaction.
func (s *FieldStore) EnsureSystemFields(ctx context.Context, tenantID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, seed := range models.SystemFieldSeeds() {
		var exists bool
		err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM product_field_display
			WHERE tenant_id = $1 AND field_name = $2)`,
			tenantID, seed.Name).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check system field %s: %w", seed.Name, err)
		}
		if exists {
			continue
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO product_field_display
				(tenant_id, field_name, field_type, display_name, show_in_catalog, show_in_product, catalog_order, product_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			tenantID, seed.Name, models.FieldKindSystem, seed.DisplayName,
			seed.ShowInCatalog, seed.ShowInProduct, seed.CatalogOrder, seed.ProductOrder,
		)
		if err != nil {
			return fmt.Errorf("seed system field %s: %w", seed.Name, err)
		}
	}

	return tx.Commit()
}

// MoveDisplay performs a manual up/down reorder step: the row at index in
// the ctx-sorted list swaps order values with its neighbor. Both row
// updates are applied in a single transaction so a concurrent editor can
// never observe half a swap. Boundary moves are a no-op and return the
// empty update set.
func (s *FieldStore) MoveDisplay(ctx context.Context, tenantID uuid.UUID, display models.DisplayContext, index int, dir models.MoveDirection) ([]models.DisplayOrderUpdate, error) {
	rows, err := s.ListDisplays(ctx, tenantID, display)
	if err != nil {
		return nil, err
	}

	updates := models.SwapDisplayOrder(rows, index, dir, display)
	if updates == nil {
		return nil, nil
	}

	column := "product_order"
	if display == models.ContextCatalog {
		column = "catalog_order"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, u := range updates {
		if _, err := tx.ExecContext(ctx,
			`UPDATE product_field_display SET `+column+` = $1 WHERE tenant_id = $2 AND id = $3`,
			u.Order, tenantID, u.ID); err != nil {
			return nil, fmt.Errorf("apply swap for row %d: %w", u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit swap: %w", err)
	}
	return updates, nil
}

// ToggleDisplay flips show_in_catalog or show_in_product for one display
// row. Protected fields are refused with models.ErrProtectedField and the
// stored row is left untouched.
func (s *FieldStore) ToggleDisplay(ctx context.Context, tenantID uuid.UUID, id int64, display models.DisplayContext) (*models.ProductFieldDisplay, error) {
	d, err := s.FindDisplayByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, sql.ErrNoRows
	}

	if models.ToggleRefused(d.FieldName, display, d.Shown(display)) {
		return nil, models.ErrProtectedField
	}

	column := "show_in_product"
	if display == models.ContextCatalog {
		column = "show_in_catalog"
	}

	row := s.db.QueryRowContext(ctx,
		`UPDATE product_field_display SET `+column+` = NOT `+column+`
		WHERE tenant_id = $1 AND id = $2
		RETURNING `+displayColumns,
		tenantID, id)
	updated, err := scanDisplay(row)
	if err != nil {
		return nil, fmt.Errorf("toggle display: %w", err)
	}
	return updated, nil
}
