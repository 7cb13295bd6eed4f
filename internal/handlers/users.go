// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"partshub/internal/middleware"
	"partshub/internal/models"
)

// AdminListUsers returns the tenant's accounts.
func (h *Handlers) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	items, err := h.Users.List(r.Context(), tenant.ID)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": items})
}

// AdminCreateUser creates an account with an explicit role, for staff
// onboarding. Self-service signup goes through Register instead.
func (h *Handlers) AdminCreateUser(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	var req struct {
		Email       string      `json:"email"`
		Password    string      `json:"password"`
		DisplayName string      `json:"display_name"`
		Role        models.Role `json:"role"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Var(req.Email, "required,email"); err != nil {
		respondError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleCustomer {
		respondError(w, http.StatusBadRequest, "unknown role")
		return
	}

	existing, err := h.Users.FindByEmail(r.Context(), tenant.ID, req.Email)
	if err != nil {
		storeError(w, err)
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "an account with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		storeError(w, err)
		return
	}

	user, err := h.Users.Create(r.Context(), &models.User{
		TenantID:     tenant.ID,
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Role:         req.Role,
		Active:       true,
	})
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// AdminUpdateUser edits an account's profile and role.
func (h *Handlers) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req struct {
		Email       string      `json:"email"`
		DisplayName string      `json:"display_name"`
		Role        models.Role `json:"role"`
		Active      bool        `json:"active"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Var(req.Email, "required,email"); err != nil {
		respondError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleCustomer {
		respondError(w, http.StatusBadRequest, "unknown role")
		return
	}

	updated, err := h.Users.Update(r.Context(), &models.User{
		ID:          id,
		TenantID:    tenant.ID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Active:      req.Active,
	})
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// AdminDeactivateUser disables an account without deleting its orders.
func (h *Handlers) AdminDeactivateUser(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.Users.SetActive(r.Context(), tenant.ID, id, false); err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
