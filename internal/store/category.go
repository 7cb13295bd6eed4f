// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"partshub/internal/models"
)

// CategoryStore manages the category taxonomy in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, tenant_id, name, slug, description, parent_id, level, path, order_index, active, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.TenantID, &c.Name, &c.Slug, &c.Description,
		&c.ParentID, &c.Level, &c.Path, &c.OrderIndex, &c.Active,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns every category of a tenant ordered for display. Inactive
// rows are included so the admin can see and restore them.
func (s *CategoryStore) List(ctx context.Context, tenantID uuid.UUID) ([]models.Category, error) {
	return s.list(ctx, tenantID, false)
}

// ListActive returns only active categories, the storefront's view.
func (s *CategoryStore) ListActive(ctx context.Context, tenantID uuid.UUID) ([]models.Category, error) {
	return s.list(ctx, tenantID, true)
}

func (s *CategoryStore) list(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE tenant_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY level, order_index, id`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Tree returns the tenant's active categories as a nested forest.
func (s *CategoryStore) Tree(ctx context.Context, tenantID uuid.UUID) ([]models.Category, error) {
	flat, err := s.ListActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return models.BuildCategoryTree(flat), nil
}

// FindByID retrieves a category by id. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, tenantID uuid.UUID, id int64) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE tenant_id = $1 AND id = $2`,
		tenantID, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category. Level and materialized path are computed
// from the parent inside the transaction, and the new row is appended at
// the end of its sibling group.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	level, path := 0, c.Name
	if c.ParentID != nil {
		parent, err := findCategoryTx(ctx, tx, c.TenantID, *c.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("create category: parent %d not found", *c.ParentID)
		}
		level = parent.Level + 1
		path = parent.ChildPath(c.Name)
	}

	var orderIndex int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(order_index), -1) + 1 FROM categories
		WHERE tenant_id = $1 AND parent_id IS NOT DISTINCT FROM $2`,
		c.TenantID, c.ParentID).Scan(&orderIndex)
	if err != nil {
		return nil, fmt.Errorf("next order index: %w", err)
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO categories (tenant_id, name, slug, description, parent_id, level, path, order_index, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+categoryColumns,
		c.TenantID, c.Name, c.Slug, c.Description, c.ParentID, level, path, orderIndex, c.Active,
	)
	created, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create category: %w", err)
	}
	return created, nil
}

// Update modifies a category. Renaming or re-parenting recomputes the
// level and materialized path of the category and its entire subtree in
// the same transaction, so paths never go stale.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (*models.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	existing, err := findCategoryTx(ctx, tx, c.TenantID, c.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, sql.ErrNoRows
	}

	level, path := 0, c.Name
	if c.ParentID != nil {
		if *c.ParentID == c.ID {
			return nil, fmt.Errorf("update category: cannot be its own parent")
		}
		parent, err := findCategoryTx(ctx, tx, c.TenantID, *c.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("update category: parent %d not found", *c.ParentID)
		}
		if strings.HasPrefix(parent.Path+models.PathSeparator, existing.Path+models.PathSeparator) {
			return nil, fmt.Errorf("update category: cannot move under its own descendant")
		}
		level = parent.Level + 1
		path = parent.ChildPath(c.Name)
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, parent_id = $4,
			level = $5, path = $6, order_index = $7, active = $8, updated_at = $9
		WHERE tenant_id = $10 AND id = $11`,
		c.Name, c.Slug, c.Description, c.ParentID,
		level, path, c.OrderIndex, c.Active, now,
		c.TenantID, c.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	// Rewrite descendant paths and levels in one statement.
	if existing.Path != path || existing.Level != level {
		oldPrefix := existing.Path + models.PathSeparator
		newPrefix := path + models.PathSeparator
		_, err = tx.ExecContext(ctx, `
			UPDATE categories SET
				path = $1 || substr(path, $2),
				level = level + $3,
				updated_at = $4
			WHERE tenant_id = $5 AND path LIKE $6`,
			newPrefix, len(oldPrefix)+1, level-existing.Level, now,
			c.TenantID, likePattern(oldPrefix)+"%",
		)
		if err != nil {
			return nil, fmt.Errorf("update category subtree: %w", err)
		}
	}

	updated, err := findCategoryTx(ctx, tx, c.TenantID, c.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update category: %w", err)
	}
	return updated, nil
}

// Delete removes a leaf category. A category with children is protected
// and the delete is refused with models.ErrHasChildren.
func (s *CategoryStore) Delete(ctx context.Context, tenantID uuid.UUID, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var children int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE tenant_id = $1 AND parent_id = $2`,
		tenantID, id).Scan(&children)
	if err != nil {
		return fmt.Errorf("count children: %w", err)
	}
	if children > 0 {
		return models.ErrHasChildren
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM categories WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	return tx.Commit()
}

// ReorderItem represents a single item in a reorder request.
type ReorderItem struct {
	ID       int64  `json:"id"`
	ParentID *int64 `json:"parent_id"`
	Order    int    `json:"order"`
}

// Reorder updates order_index for multiple categories in one transaction.
// Re-parenting through this endpoint is intentionally not supported: it
// would require subtree path rewrites better expressed through Update.
func (s *CategoryStore) Reorder(ctx context.Context, tenantID uuid.UUID, items []ReorderItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE categories SET order_index = $1, updated_at = $2
		WHERE tenant_id = $3 AND id = $4`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, item.Order, now, tenantID, item.ID); err != nil {
			return fmt.Errorf("reorder category %d: %w", item.ID, err)
		}
	}

	return tx.Commit()
}

// findCategoryTx loads one category inside an open transaction.
func findCategoryTx(ctx context.Context, tx *sql.Tx, tenantID uuid.UUID, id int64) (*models.Category, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE tenant_id = $1 AND id = $2`,
		tenantID, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return c, nil
}

// likePattern escapes LIKE metacharacters in a literal prefix.
func likePattern(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix)
}
