// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"partshub/internal/models"
)

func TestCategoryStoreCreateComputesPath(t *testing.T) {
	db := testDB(t)
	tenant := testTenant(t, db)
	s := NewCategoryStore(db)
	ctx := context.Background()

	root, err := s.Create(ctx, &models.Category{
		TenantID: tenant.ID, Name: "Engines", Active: true,
	})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	if root.Level != 0 {
		t.Errorf("root level = %d, want 0", root.Level)
	}
	if root.Path != "Engines" {
		t.Errorf("root path = %q, want %q", root.Path, "Engines")
	}

	child, err := s.Create(ctx, &models.Category{
		TenantID: tenant.ID, Name: "Pistons", ParentID: &root.ID, Active: true,
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if child.Level != 1 {
		t.Errorf("child level = %d, want 1", child.Level)
	}
	if child.Path != "Engines > Pistons" {
		t.Errorf("child path = %q, want %q", child.Path, "Engines > Pistons")
	}
}

func TestCategoryStoreCreateAppendsOrderIndex(t *testing.T) {
	db := testDB(t)
	tenant := testTenant(t, db)
	s := NewCategoryStore(db)
	ctx := context.Background()

	first, err := s.Create(ctx, &models.Category{TenantID: tenant.ID, Name: "Brakes", Active: true})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := s.Create(ctx, &models.Category{TenantID: tenant.ID, Name: "Filters", Active: true})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if second.OrderIndex != first.OrderIndex+1 {
		t.Errorf("order index = %d, want %d", second.OrderIndex, first.OrderIndex+1)
	}
}

func TestCategoryStoreUpdateRewritesSubtree(t *testing.T) {
	db := testDB(t)
	tenant := testTenant(t, db)
	s := NewCategoryStore(db)
	ctx := context.Background()

	root, err := s.Create(ctx, &models.Category{TenantID: tenant.ID, Name: "Engines", Active: true})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	child, err := s.Create(ctx, &models.Category{TenantID: tenant.ID, Name: "Pistons", ParentID: &root.ID, Active: true})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	grandchild, err := s.Create(ctx, &models.Category{TenantID: tenant.ID, Name: "Rings", ParentID: &child.ID, Active: true})
	if err != nil {
		t.Fatalf("create grandchild: %v", err)
	}

	// Rename the root; every descendant path must follow.
	root.Name = "Motors"
	if _, err := s.Update(ctx, root); err != nil {
		t.Fatalf("update root: %v", err)
	}

	got, err := s.FindByID(ctx, tenant.ID, grandchild.ID)
	if err != nil {
		t.Fatalf("find grandchild: %v", err)
	}
	if got.Path != "Motors > Pistons > Rings" {
		t.Errorf("grandchild path = %q, want %q", got.Path, "Motors > Pistons > Rings")
	}
	if got.Level != 2 {
		t.Errorf("grandchild level = %d, want 2", got.Level)
	}
}

func TestCategoryStoreUpdateRefusesCycles(t *testing.T) {
	db := testDB(t)
	tenant := testTenant(t, db)
	s := NewCategoryStore(db)
	ctx := context.Background()

	root, err := s.Create(ctx, &models.Category{TenantID: tenant.ID, Name: "Engines", Active: true})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	child, err := s.Create(ctx, &models.Category{TenantID: tenant.ID, Name: "Pistons", ParentID: &root.ID, Active: true})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	// Self-parent.
	root.ParentID = &root.ID
	if _, err := s.Update(ctx, root); err == nil {
		t.Error("expected error for self-parenting")
	}

	// Move under own descendant.
	root.ParentID = &child.ID
	if _, err := s.Update(ctx, root); err == nil {
		t.Error("expected error for moving under a descendant")
	}
}

func TestCategoryStoreDeleteGuard(t *testing.T) {
	db := testDB(t)
	tenant := testTenant(t, db)
	s := NewCategoryStore(db)
	ctx := context.Background()

	root, err := s.Create(ctx, &models.Category{TenantID: tenant.ID, Name: "Engines", Active: true})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	child, err := s.Create(ctx, &models.Category{TenantID: tenant.ID, Name: "Pistons", ParentID: &root.ID, Active: true})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	// A parent with children is refused.
	if err := s.Delete(ctx, tenant.ID, root.ID); !errors.Is(err, models.ErrHasChildren) {
		t.Errorf("delete parent: got %v, want ErrHasChildren", err)
	}

	// Leaf first, then the now-childless parent.
	if err := s.Delete(ctx, tenant.ID, child.ID); err != nil {
		t.Fatalf("delete leaf: %v", err)
	}
	if err := s.Delete(ctx, tenant.ID, root.ID); err != nil {
		t.Fatalf("delete parent after leaf: %v", err)
	}
}

func TestCategoryStoreTreeScopesTenant(t *testing.T) {
	db := testDB(t)
	tenantA := testTenant(t, db)
	tenantB := testTenant(t, db)
	s := NewCategoryStore(db)
	ctx := context.Background()

	if _, err := s.Create(ctx, &models.Category{TenantID: tenantA.ID, Name: "Only A", Active: true}); err != nil {
		t.Fatalf("create for tenant A: %v", err)
	}

	tree, err := s.Tree(ctx, tenantB.ID)
	if err != nil {
		t.Fatalf("tree for tenant B: %v", err)
	}
	if len(tree) != 0 {
		t.Errorf("tenant B tree has %d roots, want 0", len(tree))
	}
}

func TestCategoryStoreReorder(t *testing.T) {
	db := testDB(t)
	tenant := testTenant(t, db)
	s := NewCategoryStore(db)
	ctx := context.Background()

	a, err := s.Create(ctx, &models.Category{TenantID: tenant.ID, Name: "Alpha", Active: true})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := s.Create(ctx, &models.Category{TenantID: tenant.ID, Name: "Beta", Active: true})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}

	err = s.Reorder(ctx, tenant.ID, []ReorderItem{
		{ID: a.ID, Order: 5},
		{ID: b.ID, Order: 1},
	})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}

	tree, err := s.Tree(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if len(tree) != 2 {
		t.Fatalf("tree has %d roots, want 2", len(tree))
	}
	if tree[0].ID != b.ID {
		t.Errorf("first root = %d, want %d (Beta reordered first)", tree[0].ID, b.ID)
	}
}
