// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"partshub/internal/models"
)

// createTestProduct inserts a purchasable product directly through the store.
func createTestProduct(t *testing.T, env *testEnv, name string, priceCents int64, stock int) *models.Product {
	t.Helper()

	created, err := env.Handlers.Products.Create(context.Background(), &models.Product{
		TenantID:   env.Tenant.ID,
		Name:       name,
		Reference:  "REF-" + uuid.NewString()[:8],
		PriceCents: priceCents,
		Stock:      stock,
		Visible:    true,
		Vendable:   true,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return created
}

// openCartWith creates a cart holding qty units of the product.
func openCartWith(t *testing.T, env *testEnv, productID uuid.UUID, qty int) string {
	t.Helper()

	rec := httptest.NewRecorder()
	env.Handlers.CreateCart(rec, env.request(t, http.MethodPost, "/cart", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create cart: status %d, body %s", rec.Code, rec.Body)
	}

	var created struct {
		Token string `json:"token"`
	}
	decodeResponse(t, rec, &created)

	rec = httptest.NewRecorder()
	req := env.request(t, http.MethodPut, "/cart/"+created.Token+"/items", map[string]any{
		"product_id": productID,
		"quantity":   qty,
	})
	env.Handlers.UpdateCartItem(rec, withChiURLParam(req, "token", created.Token))
	if rec.Code != http.StatusOK {
		t.Fatalf("set cart item: status %d, body %s", rec.Code, rec.Body)
	}

	return created.Token
}

func TestCheckoutCreatesOrder(t *testing.T) {
	env := newTestEnv(t)

	p := createTestProduct(t, env, "Brake Pad Set", 4500, 10)
	token := openCartWith(t, env, p.ID, 2)

	rec := httptest.NewRecorder()
	env.Handlers.Checkout(rec, env.request(t, http.MethodPost, "/orders", map[string]any{
		"cart_token":     token,
		"customer_name":  "Jean Dupont",
		"customer_email": "jean@example.com",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout: status %d, body %s", rec.Code, rec.Body)
	}

	var order models.Order
	decodeResponse(t, rec, &order)

	if !models.ValidOrderNumber(order.Number) {
		t.Errorf("order number %q does not match CMD-YYYY-MMDD-NNNN", order.Number)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("status = %q, want pending", order.Status)
	}
	if order.TotalCents != 9000 {
		t.Errorf("total = %d, want 9000", order.TotalCents)
	}

	// The cart is gone after a successful checkout.
	rec = httptest.NewRecorder()
	req := env.request(t, http.MethodGet, "/cart/"+token, nil)
	env.Handlers.GetCart(rec, withChiURLParam(req, "token", token))
	if rec.Code != http.StatusNotFound {
		t.Errorf("cart after checkout: status %d, want 404", rec.Code)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Handlers.CreateCart(rec, env.request(t, http.MethodPost, "/cart", nil))
	var created struct {
		Token string `json:"token"`
	}
	decodeResponse(t, rec, &created)

	rec = httptest.NewRecorder()
	env.Handlers.Checkout(rec, env.request(t, http.MethodPost, "/orders", map[string]any{
		"cart_token":     created.Token,
		"customer_name":  "Jean Dupont",
		"customer_email": "jean@example.com",
	}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty cart checkout: status %d, want 400", rec.Code)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	env := newTestEnv(t)

	p := createTestProduct(t, env, "Rare Part", 10000, 5)
	token := openCartWith(t, env, p.ID, 5)

	// Stock drops between carting and checkout.
	p.Stock = 1
	if _, err := env.Handlers.Products.Update(context.Background(), p); err != nil {
		t.Fatalf("shrink stock: %v", err)
	}

	rec := httptest.NewRecorder()
	env.Handlers.Checkout(rec, env.request(t, http.MethodPost, "/orders", map[string]any{
		"cart_token":     token,
		"customer_name":  "Jean Dupont",
		"customer_email": "jean@example.com",
	}))
	if rec.Code != http.StatusConflict {
		t.Errorf("oversold checkout: status %d, want 409", rec.Code)
	}
}

func TestCartRejectsUnpurchasableProduct(t *testing.T) {
	env := newTestEnv(t)

	p := createTestProduct(t, env, "Display Only", 2500, 3)
	p.Vendable = false
	if _, err := env.Handlers.Products.Update(context.Background(), p); err != nil {
		t.Fatalf("update product: %v", err)
	}

	rec := httptest.NewRecorder()
	env.Handlers.CreateCart(rec, env.request(t, http.MethodPost, "/cart", nil))
	var created struct {
		Token string `json:"token"`
	}
	decodeResponse(t, rec, &created)

	rec = httptest.NewRecorder()
	req := env.request(t, http.MethodPut, "/cart/"+created.Token+"/items", map[string]any{
		"product_id": p.ID,
		"quantity":   1,
	})
	env.Handlers.UpdateCartItem(rec, withChiURLParam(req, "token", created.Token))
	if rec.Code != http.StatusConflict {
		t.Errorf("cart non-vendable product: status %d, want 409", rec.Code)
	}
}

func TestDeleteCartDiscardsContents(t *testing.T) {
	env := newTestEnv(t)

	p := createTestProduct(t, env, "Spark Plug", 800, 20)
	token := openCartWith(t, env, p.ID, 4)

	rec := httptest.NewRecorder()
	req := env.request(t, http.MethodDelete, "/cart/"+token, nil)
	env.Handlers.DeleteCart(rec, withChiURLParam(req, "token", token))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete cart: status %d, body %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	req = env.request(t, http.MethodGet, "/cart/"+token, nil)
	env.Handlers.GetCart(rec, withChiURLParam(req, "token", token))
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted cart: status %d, want 404", rec.Code)
	}

	// Deleting again is harmless.
	rec = httptest.NewRecorder()
	req = env.request(t, http.MethodDelete, "/cart/"+token, nil)
	env.Handlers.DeleteCart(rec, withChiURLParam(req, "token", token))
	if rec.Code != http.StatusNoContent {
		t.Errorf("repeat delete: status %d, want 204", rec.Code)
	}
}

func TestCheckoutAttachesUser(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.Handlers.Users.Create(context.Background(), &models.User{
		TenantID: env.Tenant.ID, Email: "customer@example.com", PasswordHash: "x",
		Role: models.RoleCustomer, Active: true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	p := createTestProduct(t, env, "Oil Filter", 1500, 10)
	token := openCartWith(t, env, p.ID, 1)

	rec := httptest.NewRecorder()
	req := env.request(t, http.MethodPost, "/orders", map[string]any{
		"cart_token":     token,
		"customer_name":  "Customer",
		"customer_email": user.Email,
	})
	env.Handlers.Checkout(rec, withClaims(req, env.Tenant.ID, user.ID, models.RoleCustomer))
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout: status %d, body %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	req = env.request(t, http.MethodGet, "/orders/me", nil)
	env.Handlers.MyOrders(rec, withClaims(req, env.Tenant.ID, user.ID, models.RoleCustomer))
	if rec.Code != http.StatusOK {
		t.Fatalf("my orders: status %d, body %s", rec.Code, rec.Body)
	}

	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	decodeResponse(t, rec, &resp)
	if len(resp.Orders) != 1 {
		t.Errorf("order history = %d, want 1", len(resp.Orders))
	}
}
