// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"partshub/internal/cart"
	"partshub/internal/middleware"
)

// cartView joins stored cart lines with current product data so clients
// always see fresh prices and names.
type cartView struct {
	Token      string         `json:"token"`
	Items      []cartItemView `json:"items"`
	TotalCents int64          `json:"total_cents"`
}

type cartItemView struct {
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	Reference  string    `json:"reference"`
	PriceCents int64     `json:"price_cents"`
	Quantity   int       `json:"quantity"`
	LineCents  int64     `json:"line_cents"`
}

// CreateCart opens a new empty cart and returns its token.
func (h *Handlers) CreateCart(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	token, err := h.Carts.Create(r.Context(), tenant.ID)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"token": token})
}

// GetCart returns the cart contents priced against current products.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())
	token := chi.URLParam(r, "token")

	c, err := h.Carts.Get(r.Context(), tenant.ID, token)
	if err != nil {
		storeError(w, err)
		return
	}
	if c == nil {
		respondError(w, http.StatusNotFound, "cart not found")
		return
	}

	view, err := h.buildCartView(r, token, c)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// UpdateCartItem sets a product's quantity in the cart. Quantity zero
// removes the line.
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())
	token := chi.URLParam(r, "token")

	var req struct {
		ProductID uuid.UUID `json:"product_id"`
		Quantity  int       `json:"quantity"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity < 0 || req.Quantity > maxCartQuantity {
		respondError(w, http.StatusBadRequest, "invalid quantity")
		return
	}

	if req.Quantity > 0 {
		// Only purchasable products can enter a cart.
		p, err := h.Products.FindByID(r.Context(), tenant.ID, req.ProductID)
		if err != nil {
			storeError(w, err)
			return
		}
		if p == nil || !p.Purchasable() {
			respondError(w, http.StatusConflict, "product is not available for purchase")
			return
		}
	}

	c, err := h.Carts.SetItem(r.Context(), tenant.ID, token, req.ProductID, req.Quantity)
	if err != nil {
		storeError(w, err)
		return
	}
	if c == nil {
		respondError(w, http.StatusNotFound, "cart not found")
		return
	}

	view, err := h.buildCartView(r, token, c)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// DeleteCart discards a cart. Deleting an unknown or expired token is
// not an error; the outcome is the same.
func (h *Handlers) DeleteCart(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.Carts.Delete(r.Context(), token); err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// buildCartView loads current product data for every cart line. Lines
// whose product vanished are skipped rather than failing the whole cart.
func (h *Handlers) buildCartView(r *http.Request, token string, c *cart.Cart) (*cartView, error) {
	tenant := middleware.TenantFromCtx(r.Context())

	view := &cartView{Token: token, Items: []cartItemView{}}
	for _, item := range c.Items {
		p, err := h.Products.FindByID(r.Context(), tenant.ID, item.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}

		line := p.PriceCents * int64(item.Quantity)
		view.Items = append(view.Items, cartItemView{
			ProductID:  p.ID,
			Name:       p.Name,
			Reference:  p.Reference,
			PriceCents: p.PriceCents,
			Quantity:   item.Quantity,
			LineCents:  line,
		})
		view.TotalCents += line
	}
	return view, nil
}
