// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"partshub/internal/models"
)

// ErrInsufficientStock is returned when a checkout asks for more units
// than are available.
var ErrInsufficientStock = errors.New("insufficient stock")

// ProductStore manages products and their custom field values.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, tenant_id, category_id, name, reference, slug, description, price_cents, stock, photo_url, visible, vendable, created_at, updated_at`

func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := scanner.Scan(
		&p.ID, &p.TenantID, &p.CategoryID, &p.Name, &p.Reference, &p.Slug,
		&p.Description, &p.PriceCents, &p.Stock, &p.PhotoURL,
		&p.Visible, &p.Vendable, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CatalogFilter narrows catalog listings.
type CatalogFilter struct {
	CategoryID *int64
	Search     string
	Limit      int
	Offset     int
}

// List returns a tenant's products for the admin view (no visibility
// filtering). Custom field values are loaded in a second query.
func (s *ProductStore) List(ctx context.Context, tenantID uuid.UUID, f CatalogFilter) ([]models.Product, error) {
	return s.list(ctx, tenantID, f, false)
}

// ListCatalog returns the storefront view: visible products only.
func (s *ProductStore) ListCatalog(ctx context.Context, tenantID uuid.UUID, f CatalogFilter) ([]models.Product, error) {
	return s.list(ctx, tenantID, f, true)
}

func (s *ProductStore) list(ctx context.Context, tenantID uuid.UUID, f CatalogFilter, visibleOnly bool) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1`
	args := []any{tenantID}

	if visibleOnly {
		query += ` AND visible`
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		query += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR reference ILIKE $%d)`, len(args), len(args))
	}
	query += ` ORDER BY name, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachCustomFields(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID retrieves a product with its custom field values. Returns nil
// if not found.
func (s *ProductStore) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND id = $2`,
		tenantID, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}

	items := []models.Product{*p}
	if err := s.attachCustomFields(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// attachCustomFields loads product_field_values for the given products
// and fills their CustomFields maps.
func (s *ProductStore) attachCustomFields(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	index := make(map[uuid.UUID]int, len(products))
	ids := make([]uuid.UUID, len(products))
	for i := range products {
		index[products[i].ID] = i
		ids[i] = products[i].ID
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, field_name, value FROM product_field_values
		WHERE product_id = ANY($1)`, uuidArray(ids))
	if err != nil {
		return fmt.Errorf("load custom fields: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID uuid.UUID
		var name, value string
		if err := rows.Scan(&productID, &name, &value); err != nil {
			return fmt.Errorf("scan custom field: %w", err)
		}
		i, ok := index[productID]
		if !ok {
			continue
		}
		if products[i].CustomFields == nil {
			products[i].CustomFields = make(map[string]string)
		}
		products[i].CustomFields[name] = value
	}
	return rows.Err()
}

// Create inserts a product and its custom field values in one transaction.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		INSERT INTO products (tenant_id, category_id, name, reference, slug, description, price_cents, stock, photo_url, visible, vendable)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+productColumns,
		p.TenantID, p.CategoryID, p.Name, p.Reference, p.Slug, p.Description,
		p.PriceCents, p.Stock, p.PhotoURL, p.Visible, p.Vendable,
	)
	created, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := writeCustomFields(ctx, tx, created.ID, p.CustomFields); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create product: %w", err)
	}
	created.CustomFields = p.CustomFields
	return created, nil
}

// Update modifies a product and replaces its custom field values in one
// transaction.
func (s *ProductStore) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		UPDATE products SET
			category_id = $1, name = $2, reference = $3, slug = $4, description = $5,
			price_cents = $6, stock = $7, photo_url = $8, visible = $9, vendable = $10,
			updated_at = $11
		WHERE tenant_id = $12 AND id = $13
		RETURNING `+productColumns,
		p.CategoryID, p.Name, p.Reference, p.Slug, p.Description,
		p.PriceCents, p.Stock, p.PhotoURL, p.Visible, p.Vendable, time.Now(),
		p.TenantID, p.ID,
	)
	updated, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM product_field_values WHERE product_id = $1`, p.ID); err != nil {
		return nil, fmt.Errorf("clear custom fields: %w", err)
	}
	if err := writeCustomFields(ctx, tx, p.ID, p.CustomFields); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update product: %w", err)
	}
	updated.CustomFields = p.CustomFields
	return updated, nil
}

// writeCustomFields inserts the custom field values for a product.
func writeCustomFields(ctx context.Context, tx *sql.Tx, productID uuid.UUID, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO product_field_values (product_id, field_name, value)
		VALUES ($1, $2, $3)`)
	if err != nil {
		return fmt.Errorf("prepare custom fields: %w", err)
	}
	defer stmt.Close()

	for name, value := range values {
		if _, err := stmt.ExecContext(ctx, productID, name, value); err != nil {
			return fmt.Errorf("write custom field %s: %w", name, err)
		}
	}
	return nil
}

// Delete removes a product and its custom field values.
func (s *ProductStore) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM products WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetPhotoURL records the storage URL of an uploaded product photo.
func (s *ProductStore) SetPhotoURL(ctx context.Context, tenantID, id uuid.UUID, url string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET photo_url = $1, updated_at = $2 WHERE tenant_id = $3 AND id = $4`,
		url, time.Now(), tenantID, id)
	if err != nil {
		return fmt.Errorf("set photo url: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// uuidArray renders a uuid slice as a Postgres array literal. The pgx
// stdlib driver accepts this for = ANY($1) comparisons.
func uuidArray(ids []uuid.UUID) string {
	out := "{"
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += id.String()
	}
	return out + "}"
}
