// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"partshub/internal/middleware"
	"partshub/internal/models"
)

// Login verifies credentials against the tenant's user table and returns
// a signed access token. Wrong email and wrong password are deliberately
// the same error.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Var(req.Email, "required,email"); err != nil {
		respondError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if req.Password == "" {
		respondError(w, http.StatusBadRequest, "password is required")
		return
	}

	user, err := h.Users.FindByEmail(r.Context(), tenant.ID, req.Email)
	if err != nil {
		storeError(w, err)
		return
	}
	if user == nil || !user.Active {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.Issuer.Issue(user)
	if err != nil {
		storeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// Register creates a customer account and returns a token so the client
// is logged in immediately.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())

	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
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
		Role:         models.RoleCustomer,
		Active:       true,
	})
	if err != nil {
		storeError(w, err)
		return
	}

	token, err := h.Issuer.Issue(user)
	if err != nil {
		storeError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user's profile.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())
	claims := middleware.ClaimsFromCtx(r.Context())

	userID, err := claims.UserID()
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token subject")
		return
	}

	user, err := h.Users.FindByID(r.Context(), tenant.ID, userID)
	if err != nil {
		storeError(w, err)
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
