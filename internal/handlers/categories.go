// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gosimple/slug"

	"partshub/internal/middleware"
	"partshub/internal/models"
	"partshub/internal/store"
)

// CategoryTree serves the storefront navigation: the tenant's active
// categories as a nested forest, cached in Redis until a mutation.
func (h *Handlers) CategoryTree(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	if tree, ok := h.Catalog.GetTree(r.Context(), tenant.ID); ok {
		respondJSON(w, http.StatusOK, map[string]any{"categories": tree})
		return
	}

	tree, err := h.Categories.Tree(r.Context(), tenant.ID)
	if err != nil {
		storeError(w, err)
		return
	}

	h.Catalog.SetTree(r.Context(), tenant.ID, tree)
	respondJSON(w, http.StatusOK, map[string]any{"categories": tree})
}

// CategorySearch filters the tree by name while keeping the ancestors of
// every match, so results stay navigable.
func (h *Handlers) CategorySearch(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	flat, err := h.Categories.ListActive(r.Context(), tenant.ID)
	if err != nil {
		storeError(w, err)
		return
	}

	tree := models.FilterTree(flat, r.URL.Query().Get("q"))
	respondJSON(w, http.StatusOK, map[string]any{"categories": tree})
}

// Breadcrumb resolves the trail from root to a category. The category is
// named either by id in the URL, or by a full path string in the ?path
// query parameter (the id route with the -1 sentinel yields an empty
// trail, the storefront's "all products" state).
func (h *Handlers) Breadcrumb(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	flat, err := h.Categories.ListActive(r.Context(), tenant.ID)
	if err != nil {
		storeError(w, err)
		return
	}

	if path := r.URL.Query().Get("path"); path != "" {
		trail := models.TrailByPath(flat, path)
		respondJSON(w, http.StatusOK, map[string]any{"breadcrumb": trail})
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	trail := models.TrailByID(flat, id)
	respondJSON(w, http.StatusOK, map[string]any{"breadcrumb": trail})
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parent_id"`
	OrderIndex  int    `json:"order_index"`
	Active      *bool  `json:"active"`
}

// AdminListCategories returns every category, inactive included, as the
// flat list the admin tree editor consumes.
func (h *Handlers) AdminListCategories(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	items, err := h.Categories.List(r.Context(), tenant.ID)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": items})
}

// AdminGetCategory returns one category by id, inactive included.
func (h *Handlers) AdminGetCategory(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	c, err := h.Categories.FindByID(r.Context(), tenant.ID, id)
	if err != nil {
		storeError(w, err)
		return
	}
	if c == nil {
		respondError(w, http.StatusNotFound, "category not found")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// AdminCreateCategory creates a category under an optional parent.
func (h *Handlers) AdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateCategory(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	created, err := h.Categories.Create(r.Context(), &models.Category{
		TenantID:    tenant.ID,
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		ParentID:    req.ParentID,
		Active:      active,
	})
	if err != nil {
		storeError(w, err)
		return
	}

	h.Catalog.InvalidateTree(r.Context(), tenant.ID)
	respondJSON(w, http.StatusCreated, created)
}

// AdminUpdateCategory edits a category. Renames and re-parenting rewrite
// the stored paths of the whole subtree.
func (h *Handlers) AdminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateCategory(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := h.Categories.FindByID(r.Context(), tenant.ID, id)
	if err != nil {
		storeError(w, err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "category not found")
		return
	}

	active := existing.Active
	if req.Active != nil {
		active = *req.Active
	}

	updated, err := h.Categories.Update(r.Context(), &models.Category{
		ID:          id,
		TenantID:    tenant.ID,
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		ParentID:    req.ParentID,
		OrderIndex:  req.OrderIndex,
		Active:      active,
	})
	if err != nil {
		storeError(w, err)
		return
	}

	h.Catalog.InvalidateTree(r.Context(), tenant.ID)
	respondJSON(w, http.StatusOK, updated)
}

// AdminDeleteCategory removes a leaf category. Categories with children
// are refused with a 409 so subtrees are never deleted by accident.
func (h *Handlers) AdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.Categories.Delete(r.Context(), tenant.ID, id); err != nil {
		if errors.Is(err, models.ErrHasChildren) {
			respondError(w, http.StatusConflict, "category has children and cannot be deleted")
			return
		}
		storeError(w, err)
		return
	}

	h.Catalog.InvalidateTree(r.Context(), tenant.ID)
	respondJSON(w, http.StatusNoContent, nil)
}

// AdminReorderCategories applies a batch of order_index updates.
func (h *Handlers) AdminReorderCategories(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	var req struct {
		Items []struct {
			ID    int64 `json:"id"`
			Order int   `json:"order"`
		} `json:"items"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "no items to reorder")
		return
	}

	items := make([]store.ReorderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, store.ReorderItem{ID: item.ID, Order: item.Order})
	}

	if err := h.Categories.Reorder(r.Context(), tenant.ID, items); err != nil {
		storeError(w, err)
		return
	}

	h.Catalog.InvalidateTree(r.Context(), tenant.ID)
	respondJSON(w, http.StatusNoContent, nil)
}
