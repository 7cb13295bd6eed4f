// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"unicode/utf8"

	"partshub/internal/middleware"
	"partshub/internal/models"
)

// PublicSettings serves the subset of settings the storefront needs for
// theming and company identity, cached in Redis.
func (h *Handlers) PublicSettings(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	settings, ok := h.Catalog.GetSettings(r.Context(), tenant.ID)
	if !ok {
		var err error
		settings, err = h.Settings.All(r.Context(), tenant.ID)
		if err != nil {
			storeError(w, err)
			return
		}
		h.Catalog.SetSettings(r.Context(), tenant.ID, settings)
	}

	public := make(map[string]string, len(models.PublicKeys()))
	for _, key := range models.PublicKeys() {
		if v := settings.Get(key, ""); v != "" {
			public[key] = v
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"settings": public})
}

// AdminListSettings returns the full settings map, defaults included.
func (h *Handlers) AdminListSettings(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	settings, err := h.Settings.All(r.Context(), tenant.ID)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"settings": settings})
}

// AdminUpdateSettings upserts the posted keys and invalidates the cached
// storefront settings.
func (h *Handlers) AdminUpdateSettings(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	var req struct {
		Settings map[string]string `json:"settings"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Settings) == 0 {
		respondError(w, http.StatusBadRequest, "no settings to update")
		return
	}
	for k, v := range req.Settings {
		if k == "" || utf8.RuneCountInString(v) > maxSettingLen {
			respondError(w, http.StatusBadRequest, "invalid setting key or value")
			return
		}
	}

	if err := h.Settings.SetMany(r.Context(), tenant.ID, req.Settings); err != nil {
		storeError(w, err)
		return
	}

	h.Catalog.InvalidateSettings(r.Context(), tenant.ID)

	settings, err := h.Settings.All(r.Context(), tenant.ID)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"settings": settings})
}
