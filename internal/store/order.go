// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"partshub/internal/models"
)

// ErrInvalidTransition is returned when an order status update does not
// follow the allowed lifecycle.
var ErrInvalidTransition = errors.New("invalid order status transition")

// maxNumberAttempts bounds the collision-check loop when allocating an
// order number. Collisions need a same-day 4-digit clash, so more than a
// couple of retries means something is wrong.
const maxNumberAttempts = 10

// OrderStore manages orders and their line items.
type OrderStore struct {
	db *sql.DB
}

// NewOrderStore returns a new OrderStore.
func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

const orderColumns = `id, tenant_id, number, user_id, customer_name, customer_email, status, total_cents, created_at, updated_at`

func scanOrder(scanner interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := scanner.Scan(
		&o.ID, &o.TenantID, &o.Number, &o.UserID, &o.CustomerName,
		&o.CustomerEmail, &o.Status, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create places an order: allocates a collision-checked order number,
// inserts the order and its line items, and decrements product stock,
// all in one transaction.
func (s *OrderStore) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	if len(o.Items) == 0 {
		return nil, fmt.Errorf("create order: no items")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	number, err := allocateOrderNumber(ctx, tx, o.TenantID)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, item := range o.Items {
		total += item.LineTotal()
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO orders (tenant_id, number, user_id, customer_name, customer_email, status, total_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+orderColumns,
		o.TenantID, number, o.UserID, o.CustomerName, o.CustomerEmail,
		models.OrderStatusPending, total,
	)
	created, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	for _, item := range o.Items {
		// Guarded decrement: fails the whole order when stock ran out
		// between cart and checkout.
		res, err := tx.ExecContext(ctx, `
			UPDATE products SET stock = stock - $1, updated_at = $2
			WHERE tenant_id = $3 AND id = $4 AND stock >= $1`,
			item.Quantity, time.Now(), o.TenantID, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInsufficientStock, item.ProductID)
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, reference, unit_price_cents, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			created.ID, item.ProductID, item.Name, item.Reference,
			item.UnitPriceCents, item.Quantity).Scan(&item.ID)
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		item.OrderID = created.ID
		created.Items = append(created.Items, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create order: %w", err)
	}
	return created, nil
}

// allocateOrderNumber draws CMD-<year>-<monthday>-<random> candidates and
// checks each against existing orders until a free one is found.
func allocateOrderNumber(ctx context.Context, tx *sql.Tx, tenantID uuid.UUID) (string, error) {
	now := time.Now()
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		candidate := models.FormatOrderNumber(now, rand.Intn(10000))

		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM orders WHERE tenant_id = $1 AND number = $2)`,
			tenantID, candidate).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("check order number: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", models.ErrOrderNumberExhausted
}

// List returns a tenant's orders, newest first, optionally filtered by
// status. Line items are not loaded for listings.
func (s *OrderStore) List(ctx context.Context, tenantID uuid.UUID, status models.OrderStatus) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1`
	args := []any{tenantID}
	if status != "" {
		args = append(args, status)
		query += ` AND status = $2`
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var items []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		items = append(items, *o)
	}
	return items, rows.Err()
}

// ListByUser returns a customer's order history, newest first.
func (s *OrderStore) ListByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders
		WHERE tenant_id = $1 AND user_id = $2
		ORDER BY created_at DESC, id`,
		tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	defer rows.Close()

	var items []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		items = append(items, *o)
	}
	return items, rows.Err()
}

// FindByID retrieves an order with its line items. Returns nil if not found.
func (s *OrderStore) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE tenant_id = $1 AND id = $2`,
		tenantID, id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order by id: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, name, reference, unit_price_cents, quantity
		FROM order_items WHERE order_id = $1 ORDER BY id`, o.ID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.Reference, &item.UnitPriceCents, &item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	return o, rows.Err()
}

// UpdateStatus moves an order along its lifecycle. Transitions outside
// the allowed flow are refused with ErrInvalidTransition.
func (s *OrderStore) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, to models.OrderStatus) (*models.Order, error) {
	o, err := s.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, sql.ErrNoRows
	}
	if !models.CanTransition(o.Status, to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, o.Status, to)
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE orders SET status = $1, updated_at = $2
		WHERE tenant_id = $3 AND id = $4
		RETURNING `+orderColumns,
		to, time.Now(), tenantID, id)
	updated, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	updated.Items = o.Items
	return updated, nil
}
