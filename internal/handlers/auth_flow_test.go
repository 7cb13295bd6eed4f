// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"partshub/internal/models"
)

func TestRegisterLoginMe(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Handlers.Register(rec, env.request(t, http.MethodPost, "/auth/register", map[string]any{
		"email":        "jean@example.com",
		"password":     "s3cret-enough",
		"display_name": "Jean Dupont",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d, body %s", rec.Code, rec.Body)
	}

	var registered struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeResponse(t, rec, &registered)
	if registered.Token == "" {
		t.Error("register should return a token")
	}
	if registered.User.Role != models.RoleCustomer {
		t.Errorf("role = %q, want customer", registered.User.Role)
	}

	// Registering the same email again conflicts.
	rec = httptest.NewRecorder()
	env.Handlers.Register(rec, env.request(t, http.MethodPost, "/auth/register", map[string]any{
		"email":    "jean@example.com",
		"password": "another-secret",
	}))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register: status %d, want 409", rec.Code)
	}

	// Wrong password and unknown user look identical.
	rec = httptest.NewRecorder()
	env.Handlers.Login(rec, env.request(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    "jean@example.com",
		"password": "wrong-password",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.Handlers.Login(rec, env.request(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "wrong-password",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown user: status %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.Handlers.Login(rec, env.request(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    "jean@example.com",
		"password": "s3cret-enough",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d, body %s", rec.Code, rec.Body)
	}

	var loggedIn struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeResponse(t, rec, &loggedIn)

	// Verify the issued token and use its claims for /auth/me.
	claims, err := env.Issuer.Verify(loggedIn.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.TenantID != env.Tenant.ID {
		t.Errorf("token tenant = %s, want %s", claims.TenantID, env.Tenant.ID)
	}

	rec = httptest.NewRecorder()
	req := env.request(t, http.MethodGet, "/auth/me", nil)
	env.Handlers.Me(rec, withClaims(req, env.Tenant.ID, loggedIn.User.ID, models.RoleCustomer))
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status %d, body %s", rec.Code, rec.Body)
	}

	var me models.User
	decodeResponse(t, rec, &me)
	if me.Email != "jean@example.com" {
		t.Errorf("me email = %q, want jean@example.com", me.Email)
	}
}

func TestRegisterRejectsWeakInput(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"bad email", map[string]any{"email": "not-an-email", "password": "long-enough-pw"}},
		{"short password", map[string]any{"email": "ok@example.com", "password": "short"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.Handlers.Register(rec, env.request(t, http.MethodPost, "/auth/register", tc.body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status %d, want 400", rec.Code)
			}
		})
	}
}
