// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP API: the public storefront
// endpoints and the admin back office under /admin.
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"partshub/internal/auth"
	"partshub/internal/cache"
	"partshub/internal/cart"
	"partshub/internal/email"
	"partshub/internal/storage"
	"partshub/internal/store"
)

// Handlers bundles the dependencies shared by all HTTP handlers.
type Handlers struct {
	Tenants    *store.TenantStore
	Categories *store.CategoryStore
	Fields     *store.FieldStore
	Products   *store.ProductStore
	Orders     *store.OrderStore
	Users      *store.UserStore
	Settings   *store.SiteSettingStore

	Carts   *cart.Store
	Catalog *cache.CatalogCache
	Issuer  *auth.TokenIssuer
	Storage *storage.Client
	Email   *email.Sender
}

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeBody parses a JSON request body into dst. Unknown fields are
// rejected so typos in payloads surface instead of silently vanishing.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// storeError maps store layer failures onto HTTP responses. Not-found
// rows become 404s, everything else is logged and returned as a 500.
func storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	slog.Error("store error", "error", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}
