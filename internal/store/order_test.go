// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"

	"partshub/internal/models"
)

func testProduct(t *testing.T, db *sql.DB, tenantID uuid.UUID, stock int) *models.Product {
	t.Helper()

	s := NewProductStore(db)
	created, err := s.Create(context.Background(), &models.Product{
		TenantID:   tenantID,
		Name:       "Brake Pad Set",
		Reference:  "BP-" + uuid.NewString()[:8],
		PriceCents: 4500,
		Stock:      stock,
		Visible:    true,
		Vendable:   true,
	})
	if err != nil {
		t.Fatalf("create test product: %v", err)
	}
	return created
}

func TestOrderStoreCreate(t *testing.T) {
	db := testDB(t)
	tenant := testTenant(t, db)
	s := NewOrderStore(db)
	ctx := context.Background()

	p := testProduct(t, db, tenant.ID, 10)

	created, err := s.Create(ctx, &models.Order{
		TenantID:      tenant.ID,
		CustomerName:  "Jean Dupont",
		CustomerEmail: "jean@example.com",
		Items: []models.OrderItem{
			{ProductID: p.ID, Name: p.Name, Reference: p.Reference, UnitPriceCents: p.PriceCents, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if !models.ValidOrderNumber(created.Number) {
		t.Errorf("order number %q does not match CMD-YYYY-MMDD-NNNN", created.Number)
	}
	if created.Status != models.OrderStatusPending {
		t.Errorf("status = %q, want pending", created.Status)
	}
	if created.TotalCents != 9000 {
		t.Errorf("total = %d, want 9000", created.TotalCents)
	}
	if len(created.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(created.Items))
	}

	// Stock was decremented inside the same transaction.
	got, err := NewProductStore(db).FindByID(ctx, tenant.ID, p.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if got.Stock != 8 {
		t.Errorf("stock = %d, want 8", got.Stock)
	}
}

func TestOrderStoreCreateInsufficientStock(t *testing.T) {
	db := testDB(t)
	tenant := testTenant(t, db)
	s := NewOrderStore(db)
	ctx := context.Background()

	p := testProduct(t, db, tenant.ID, 1)

	_, err := s.Create(ctx, &models.Order{
		TenantID:      tenant.ID,
		CustomerName:  "Jean Dupont",
		CustomerEmail: "jean@example.com",
		Items: []models.OrderItem{
			{ProductID: p.ID, Name: p.Name, Reference: p.Reference, UnitPriceCents: p.PriceCents, Quantity: 5},
		},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("create: got %v, want ErrInsufficientStock", err)
	}

	// The whole order rolled back: no rows, stock unchanged.
	orders, err := s.List(ctx, tenant.ID, "")
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("orders = %d, want 0 after rollback", len(orders))
	}

	got, err := NewProductStore(db).FindByID(ctx, tenant.ID, p.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if got.Stock != 1 {
		t.Errorf("stock = %d, want 1 after rollback", got.Stock)
	}
}

func TestOrderStoreNumberUniquePerTenant(t *testing.T) {
	db := testDB(t)
	tenant := testTenant(t, db)
	s := NewOrderStore(db)
	ctx := context.Background()

	p := testProduct(t, db, tenant.ID, 100)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		created, err := s.Create(ctx, &models.Order{
			TenantID:      tenant.ID,
			CustomerName:  "Repeat Buyer",
			CustomerEmail: "buyer@example.com",
			Items: []models.OrderItem{
				{ProductID: p.ID, Name: p.Name, Reference: p.Reference, UnitPriceCents: p.PriceCents, Quantity: 1},
			},
		})
		if err != nil {
			t.Fatalf("create order %d: %v", i, err)
		}
		if seen[created.Number] {
			t.Fatalf("duplicate order number %q", created.Number)
		}
		seen[created.Number] = true
	}
}

func TestOrderStoreUpdateStatus(t *testing.T) {
	db := testDB(t)
	tenant := testTenant(t, db)
	s := NewOrderStore(db)
	ctx := context.Background()

	p := testProduct(t, db, tenant.ID, 10)
	created, err := s.Create(ctx, &models.Order{
		TenantID:      tenant.ID,
		CustomerName:  "Jean Dupont",
		CustomerEmail: "jean@example.com",
		Items: []models.OrderItem{
			{ProductID: p.ID, Name: p.Name, Reference: p.Reference, UnitPriceCents: p.PriceCents, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	// pending -> shipped skips confirmation and is refused.
	if _, err := s.UpdateStatus(ctx, tenant.ID, created.ID, models.OrderStatusShipped); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("pending to shipped: got %v, want ErrInvalidTransition", err)
	}

	updated, err := s.UpdateStatus(ctx, tenant.ID, created.ID, models.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if updated.Status != models.OrderStatusConfirmed {
		t.Errorf("status = %q, want confirmed", updated.Status)
	}

	// Terminal states refuse everything.
	if _, err := s.UpdateStatus(ctx, tenant.ID, created.ID, models.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := s.UpdateStatus(ctx, tenant.ID, created.ID, models.OrderStatusConfirmed); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancelled to confirmed: got %v, want ErrInvalidTransition", err)
	}
}

func TestOrderStoreListByUser(t *testing.T) {
	db := testDB(t)
	tenant := testTenant(t, db)
	s := NewOrderStore(db)
	ctx := context.Background()

	p := testProduct(t, db, tenant.ID, 10)

	users := NewUserStore(db)
	user, err := users.Create(ctx, &models.User{
		TenantID: tenant.ID, Email: "customer@example.com", PasswordHash: "x",
		Role: models.RoleCustomer, Active: true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := s.Create(ctx, &models.Order{
		TenantID: tenant.ID, UserID: &user.ID,
		CustomerName: "Customer", CustomerEmail: user.Email,
		Items: []models.OrderItem{
			{ProductID: p.ID, Name: p.Name, Reference: p.Reference, UnitPriceCents: p.PriceCents, Quantity: 1},
		},
	}); err != nil {
		t.Fatalf("create order: %v", err)
	}
	// A guest order for the same tenant must not appear in the history.
	if _, err := s.Create(ctx, &models.Order{
		TenantID:     tenant.ID,
		CustomerName: "Guest", CustomerEmail: "guest@example.com",
		Items: []models.OrderItem{
			{ProductID: p.ID, Name: p.Name, Reference: p.Reference, UnitPriceCents: p.PriceCents, Quantity: 1},
		},
	}); err != nil {
		t.Fatalf("create guest order: %v", err)
	}

	history, err := s.ListByUser(ctx, tenant.ID, user.ID)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("history = %d orders, want 1", len(history))
	}
}
