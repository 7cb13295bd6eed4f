// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"partshub/internal/middleware"
	"partshub/internal/models"
)

type fieldRequest struct {
	Name         string           `json:"name"`
	Label        string           `json:"label"`
	Type         models.FieldType `json:"type"`
	Required     bool             `json:"required"`
	Options      []string         `json:"options"`
	DefaultValue string           `json:"default_value"`
}

// AdminListFields returns the tenant's custom field registry, including
// deactivated fields so they can be restored.
func (h *Handlers) AdminListFields(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	items, err := h.Fields.ListFields(r.Context(), tenant.ID, true)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"fields": items})
}

// AdminCreateField registers a custom field and its display row.
func (h *Handlers) AdminCreateField(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	var req fieldRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateField(req.Name, req.Label, req.Type, req.Options); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.Fields.CreateField(r.Context(), &models.ProductField{
		TenantID:     tenant.ID,
		Name:         req.Name,
		Label:        req.Label,
		Type:         req.Type,
		Required:     req.Required,
		Options:      req.Options,
		DefaultValue: req.DefaultValue,
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateFieldName) {
			respondError(w, http.StatusConflict, "a field with this name already exists")
			return
		}
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// AdminUpdateField edits a custom field. The machine name is immutable.
func (h *Handlers) AdminUpdateField(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid field id")
		return
	}

	var req fieldRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// An empty name means "keep the current one"; the store enforces
	// immutability when a different name is sent.
	if req.Name != "" && !models.ValidFieldName(req.Name) {
		respondError(w, http.StatusBadRequest, "Field name must start with a lowercase letter and contain only lowercase letters, digits, and underscores.")
		return
	}
	if msg := validateFieldAttrs(req.Label, req.Type, req.Options); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.Fields.UpdateField(r.Context(), &models.ProductField{
		ID:           id,
		TenantID:     tenant.ID,
		Name:         req.Name,
		Label:        req.Label,
		Type:         req.Type,
		Required:     req.Required,
		Options:      req.Options,
		DefaultValue: req.DefaultValue,
	})
	if err != nil {
		if errors.Is(err, models.ErrFieldNameImmutable) {
			respondError(w, http.StatusConflict, "field name cannot be changed after creation")
			return
		}
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// AdminDeactivateField soft-deletes a custom field.
func (h *Handlers) AdminDeactivateField(w http.ResponseWriter, r *http.Request) {
	h.setFieldActive(w, r, false)
}

// AdminRestoreField brings a soft-deleted field back.
func (h *Handlers) AdminRestoreField(w http.ResponseWriter, r *http.Request) {
	h.setFieldActive(w, r, true)
}

func (h *Handlers) setFieldActive(w http.ResponseWriter, r *http.Request, active bool) {
	tenant := middleware.TenantFromCtx(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid field id")
		return
	}

	if err := h.Fields.SetFieldActive(r.Context(), tenant.ID, id, active); err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// AdminDeleteField hard-deletes a custom field, its display row, and all
// stored product values.
func (h *Handlers) AdminDeleteField(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid field id")
		return
	}

	if err := h.Fields.DeleteField(r.Context(), tenant.ID, id); err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// displayContext parses the ctx query parameter, defaulting to catalog.
func displayContext(r *http.Request) (models.DisplayContext, bool) {
	raw := r.URL.Query().Get("ctx")
	if raw == "" {
		return models.ContextCatalog, true
	}
	ctx := models.DisplayContext(raw)
	return ctx, ctx.Valid()
}

// AdminListDisplays returns the display configuration rows sorted for the
// requested context. System rows are seeded first, so a fresh tenant sees
// a complete list on the first call.
func (h *Handlers) AdminListDisplays(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	display, ok := displayContext(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown display context")
		return
	}

	if err := h.Fields.EnsureSystemFields(r.Context(), tenant.ID); err != nil {
		storeError(w, err)
		return
	}

	items, err := h.Fields.ListDisplays(r.Context(), tenant.ID, display)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"displays": items, "context": display})
}

// AdminInitSystemFields seeds missing system field rows. Idempotent, so
// the admin UI can call it unconditionally.
func (h *Handlers) AdminInitSystemFields(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	if err := h.Fields.EnsureSystemFields(r.Context(), tenant.ID); err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// AdminMoveDisplay performs one up/down reorder step for the row at the
// given position in the context-sorted list. Boundary moves are a no-op.
func (h *Handlers) AdminMoveDisplay(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	display, ok := displayContext(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown display context")
		return
	}

	var req struct {
		Index     int                  `json:"index"`
		Direction models.MoveDirection `json:"direction"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Direction != models.MoveUp && req.Direction != models.MoveDown {
		respondError(w, http.StatusBadRequest, "direction must be up or down")
		return
	}

	updates, err := h.Fields.MoveDisplay(r.Context(), tenant.ID, display, req.Index, req.Direction)
	if err != nil {
		storeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"updates": updates})
}

// AdminToggleDisplay flips the visibility of one display row in one
// context. Protected fields are refused with a 409.
func (h *Handlers) AdminToggleDisplay(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	display, ok := displayContext(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown display context")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid display id")
		return
	}

	updated, err := h.Fields.ToggleDisplay(r.Context(), tenant.ID, id, display)
	if err != nil {
		if errors.Is(err, models.ErrProtectedField) {
			respondError(w, http.StatusConflict, "field visibility is protected in this context")
			return
		}
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// VisibleFields is the public endpoint the storefront uses to decide
// which columns to render for a context.
func (h *Handlers) VisibleFields(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	display, ok := displayContext(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown display context")
		return
	}

	items, err := h.Fields.ListVisible(r.Context(), tenant.ID, display)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"fields": items, "context": display})
}
