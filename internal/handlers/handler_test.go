// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Redis are
// unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"partshub/internal/auth"
	"partshub/internal/cache"
	"partshub/internal/cart"
	"partshub/internal/database"
	"partshub/internal/middleware"
	"partshub/internal/models"
	"partshub/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "partshub")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "partshub")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testRedisClient returns a Redis client for handler tests on DB 15.
func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("REDIS_HOST", "localhost")
	port := envOr("REDIS_PORT", "6379")
	password := os.Getenv("REDIS_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Redis not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"catalog:*", "cart:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB       *sql.DB
	Redis    *redis.Client
	Tenant   *models.Tenant
	Issuer   *auth.TokenIssuer
	Handlers *Handlers
}

// newTestEnv creates a complete test environment with a throwaway tenant.
// Deleting the tenant in cleanup cascades through every scoped table.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	rdb := testRedisClient(t)

	tenants := store.NewTenantStore(db)
	tenant, err := tenants.Create(context.Background(), &models.Tenant{
		Name:   "Test Tenant " + uuid.NewString()[:8],
		Slug:   "test-" + uuid.NewString(),
		Active: true,
	})
	if err != nil {
		t.Fatalf("create test tenant: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM tenants WHERE id = $1", tenant.ID)
	})

	issuer := auth.NewTokenIssuer("test-secret")

	h := &Handlers{
		Tenants:    tenants,
		Categories: store.NewCategoryStore(db),
		Fields:     store.NewFieldStore(db),
		Products:   store.NewProductStore(db),
		Orders:     store.NewOrderStore(db),
		Users:      store.NewUserStore(db),
		Settings:   store.NewSiteSettingStore(db),
		Carts:      cart.NewStore(rdb),
		Catalog:    cache.NewCatalogCache(rdb, 0),
		Issuer:     issuer,
		// Storage and Email stay nil: uploads answer 503 and mails are
		// silently skipped, same as an unconfigured deployment.
	}

	return &testEnv{DB: db, Redis: rdb, Tenant: tenant, Issuer: issuer, Handlers: h}
}

// request builds an HTTP request with the test tenant already resolved
// in the context, the way ResolveTenant would leave it.
func (env *testEnv) request(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	r := httptest.NewRequest(method, target, &buf)
	ctx := context.WithValue(r.Context(), middleware.TenantKey, env.Tenant)
	return r.WithContext(ctx)
}

// withClaims attaches verified token claims to a request, the way
// LoadClaims would for a valid bearer token.
func withClaims(r *http.Request, tenantID uuid.UUID, userID uuid.UUID, role models.Role) *http.Request {
	claims := &auth.Claims{
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID.String(),
		},
	}
	return r.WithContext(context.WithValue(r.Context(), middleware.ClaimsKey, claims))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeResponse parses a recorded JSON response body into dst.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
