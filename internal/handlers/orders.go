// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"partshub/internal/middleware"
	"partshub/internal/models"
	"partshub/internal/store"
)

// Checkout drains a cart into a pending order. The order number is
// allocated with a collision check, stock is decremented, and the cart
// is deleted only after the order committed. The confirmation email is
// best-effort and never fails the order.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	var req struct {
		CartToken     string `json:"cart_token"`
		CustomerName  string `json:"customer_name"`
		CustomerEmail string `json:"customer_email"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CustomerName == "" {
		respondError(w, http.StatusBadRequest, "customer name is required")
		return
	}
	if err := validate.Var(req.CustomerEmail, "required,email"); err != nil {
		respondError(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	c, err := h.Carts.Get(r.Context(), tenant.ID, req.CartToken)
	if err != nil {
		storeError(w, err)
		return
	}
	if c == nil {
		respondError(w, http.StatusNotFound, "cart not found")
		return
	}
	if len(c.Items) == 0 {
		respondError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	order := &models.Order{
		TenantID:      tenant.ID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	}

	// Logged-in customers get the order attached to their account.
	if claims := middleware.ClaimsFromCtx(r.Context()); claims != nil {
		if userID, err := claims.UserID(); err == nil {
			order.UserID = &userID
		}
	}

	for _, item := range c.Items {
		p, err := h.Products.FindByID(r.Context(), tenant.ID, item.ProductID)
		if err != nil {
			storeError(w, err)
			return
		}
		if p == nil || !p.Purchasable() {
			respondError(w, http.StatusConflict, "a cart item is no longer available")
			return
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID:      p.ID,
			Name:           p.Name,
			Reference:      p.Reference,
			UnitPriceCents: p.PriceCents,
			Quantity:       item.Quantity,
		})
	}

	created, err := h.Orders.Create(r.Context(), order)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientStock) {
			respondError(w, http.StatusConflict, "insufficient stock for a cart item")
			return
		}
		if errors.Is(err, models.ErrOrderNumberExhausted) {
			respondError(w, http.StatusServiceUnavailable, "could not allocate an order number, try again")
			return
		}
		storeError(w, err)
		return
	}

	// The order exists; a leftover cart just expires on its own.
	if err := h.Carts.Delete(r.Context(), req.CartToken); err != nil {
		slog.Warn("delete cart after checkout", "order", created.Number, "error", err)
	}

	settings, err := h.Settings.All(r.Context(), tenant.ID)
	if err == nil {
		company := settings.Get(models.SettingCompanyName, "PartsHub")
		go h.Email.SendOrderConfirmation(created.CustomerEmail, created, company)
	}

	respondJSON(w, http.StatusCreated, created)
}

// MyOrders returns the authenticated customer's order history.
func (h *Handlers) MyOrders(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())
	claims := middleware.ClaimsFromCtx(r.Context())

	userID, err := claims.UserID()
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token subject")
		return
	}

	items, err := h.Orders.ListByUser(r.Context(), tenant.ID, userID)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": items})
}

// AdminListOrders returns the tenant's orders, optionally filtered by
// status.
func (h *Handlers) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	status := models.OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		respondError(w, http.StatusBadRequest, "unknown order status")
		return
	}

	items, err := h.Orders.List(r.Context(), tenant.ID, status)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": items})
}

// AdminGetOrder returns one order with its line items.
func (h *Handlers) AdminGetOrder(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.Orders.FindByID(r.Context(), tenant.ID, id)
	if err != nil {
		storeError(w, err)
		return
	}
	if o == nil {
		respondError(w, http.StatusNotFound, "order not found")
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// AdminUpdateOrderStatus moves an order along its lifecycle. Transitions
// outside the allowed flow get a 409.
func (h *Handlers) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Status.Valid() {
		respondError(w, http.StatusBadRequest, "unknown order status")
		return
	}

	updated, err := h.Orders.UpdateStatus(r.Context(), tenant.ID, id, req.Status)
	if err != nil {
		if errors.Is(err, store.ErrInvalidTransition) {
			respondError(w, http.StatusConflict, "order cannot move to this status")
			return
		}
		storeError(w, err)
		return
	}

	settings, err := h.Settings.All(r.Context(), tenant.ID)
	if err == nil {
		company := settings.Get(models.SettingCompanyName, "PartsHub")
		go h.Email.SendOrderStatusUpdate(updated.CustomerEmail, updated, company)
	}

	respondJSON(w, http.StatusOK, updated)
}
