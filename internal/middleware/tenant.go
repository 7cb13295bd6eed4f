// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"partshub/internal/models"
	"partshub/internal/store"
)

const (
	// TenantKey is the context key for the resolved tenant.
	TenantKey contextKey = "tenant"

	// TenantHeader names the tenant slug header for storefront requests.
	TenantHeader = "X-Tenant"

	// DefaultTenantSlug is used when no header is sent, so single-tenant
	// installs work without client changes.
	DefaultTenantSlug = "demo"
)

// ResolveTenant looks up the tenant named by the X-Tenant header (or the
// default slug) and stores it in the request context. Requests for
// unknown or inactive tenants get a 404.
func ResolveTenant(tenants *store.TenantStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := strings.TrimSpace(r.Header.Get(TenantHeader))
			if slug == "" {
				slug = DefaultTenantSlug
			}

			tenant, err := tenants.FindBySlug(r.Context(), slug)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"internal server error"}`))
				return
			}
			if tenant == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":"unknown tenant"}`))
				return
			}

			ctx := context.WithValue(r.Context(), TenantKey, tenant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TenantFromCtx extracts the resolved tenant from the request context.
// Returns nil if tenant resolution did not run.
func TenantFromCtx(ctx context.Context) *models.Tenant {
	tenant, _ := ctx.Value(TenantKey).(*models.Tenant)
	return tenant
}
