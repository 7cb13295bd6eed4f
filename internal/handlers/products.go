// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"partshub/internal/middleware"
	"partshub/internal/models"
	"partshub/internal/store"
)

// maxPhotoSize caps product photo uploads at 10 MB.
const maxPhotoSize = 10 << 20

// catalogFilter builds the listing filter from query parameters. The
// category sentinel -1 means "no category", the whole catalog.
func catalogFilter(r *http.Request) store.CatalogFilter {
	f := store.CatalogFilter{
		Search: r.URL.Query().Get("q"),
		Limit:  50,
	}

	if raw := r.URL.Query().Get("category"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id != models.RootCategoryID {
			f.CategoryID = &id
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			f.Limit = n
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			f.Offset = n
		}
	}
	return f
}

// ListProducts serves the public catalog: visible products only.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	items, err := h.Products.ListCatalog(r.Context(), tenant.ID, catalogFilter(r))
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"products": items})
}

// GetProduct serves the public product detail page. Hidden products are
// indistinguishable from missing ones.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.Products.FindByID(r.Context(), tenant.ID, id)
	if err != nil {
		storeError(w, err)
		return
	}
	if p == nil || !p.Visible {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

type productRequest struct {
	CategoryID   *int64            `json:"category_id"`
	Name         string            `json:"name"`
	Reference    string            `json:"reference"`
	Description  string            `json:"description"`
	PriceCents   int64             `json:"price_cents"`
	Stock        int               `json:"stock"`
	Visible      bool              `json:"visible"`
	Vendable     bool              `json:"vendable"`
	CustomFields map[string]string `json:"custom_fields"`
}

// AdminListProducts returns all products for the back office, hidden
// ones included.
func (h *Handlers) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	items, err := h.Products.List(r.Context(), tenant.ID, catalogFilter(r))
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"products": items})
}

// AdminGetProduct returns one product regardless of visibility.
func (h *Handlers) AdminGetProduct(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.Products.FindByID(r.Context(), tenant.ID, id)
	if err != nil {
		storeError(w, err)
		return
	}
	if p == nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// AdminCreateProduct creates a product with its custom field values.
func (h *Handlers) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateProduct(req.Name, req.Reference, req.Description, req.PriceCents, req.Stock); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.Products.Create(r.Context(), &models.Product{
		TenantID:     tenant.ID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Reference:    req.Reference,
		Slug:         slug.Make(req.Name),
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		Stock:        req.Stock,
		Visible:      req.Visible,
		Vendable:     req.Vendable,
		CustomFields: req.CustomFields,
	})
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// AdminUpdateProduct edits a product and replaces its custom field values.
func (h *Handlers) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateProduct(req.Name, req.Reference, req.Description, req.PriceCents, req.Stock); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.Products.Update(r.Context(), &models.Product{
		ID:           id,
		TenantID:     tenant.ID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Reference:    req.Reference,
		Slug:         slug.Make(req.Name),
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		Stock:        req.Stock,
		Visible:      req.Visible,
		Vendable:     req.Vendable,
		CustomFields: req.CustomFields,
	})
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// AdminDeleteProduct removes a product.
func (h *Handlers) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.Products.Delete(r.Context(), tenant.ID, id); err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// AdminUploadPhoto stores a product photo in object storage and records
// its public URL on the product.
func (h *Handlers) AdminUploadPhoto(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	if h.Storage == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid upload")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		respondError(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		respondError(w, http.StatusBadRequest, "photo must be JPEG, PNG, or WebP")
		return
	}

	key := fmt.Sprintf("products/%s/%s/%d-%s", tenant.ID, id, time.Now().Unix(), slug.Make(header.Filename))
	if err := h.Storage.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		storeError(w, err)
		return
	}

	url := h.Storage.FileURL(key)
	if err := h.Products.SetPhotoURL(r.Context(), tenant.ID, id, url); err != nil {
		storeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"photo_url": url})
}
