// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// catalog.go provides a Redis-backed cache for per-tenant catalog reads:
// the built category tree and the settings map. Entries are invalidated
// explicitly whenever the underlying rows are mutated, so storefront
// requests skip the DB on the hot path without serving stale navigation.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"partshub/internal/models"
)

const (
	treeKeyPrefix     = "catalog:tree:"
	settingsKeyPrefix = "catalog:settings:"

	// DefaultCatalogTTL backstops explicit invalidation.
	DefaultCatalogTTL = 10 * time.Minute
)

// CatalogCache stores derived catalog data in Redis, keyed per tenant.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a catalog cache backed by the given Redis client.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl == 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// GetTree retrieves a cached category forest. Returns false on miss.
func (c *CatalogCache) GetTree(ctx context.Context, tenantID uuid.UUID) ([]models.Category, bool) {
	val, err := c.client.Get(ctx, treeKeyPrefix+tenantID.String()).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("catalog cache get error", "tenant", tenantID, "error", err)
		return nil, false
	}

	var tree []models.Category
	if err := json.Unmarshal(val, &tree); err != nil {
		slog.Warn("catalog cache decode error", "tenant", tenantID, "error", err)
		return nil, false
	}
	return tree, true
}

// SetTree stores a category forest with the configured TTL.
func (c *CatalogCache) SetTree(ctx context.Context, tenantID uuid.UUID, tree []models.Category) {
	payload, err := json.Marshal(tree)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, treeKeyPrefix+tenantID.String(), payload, c.ttl).Err(); err != nil {
		slog.Warn("catalog cache set error", "tenant", tenantID, "error", err)
	}
}

// GetSettings retrieves cached site settings. Returns false on miss.
func (c *CatalogCache) GetSettings(ctx context.Context, tenantID uuid.UUID) (models.SiteSettings, bool) {
	val, err := c.client.Get(ctx, settingsKeyPrefix+tenantID.String()).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("settings cache get error", "tenant", tenantID, "error", err)
		return nil, false
	}

	var settings models.SiteSettings
	if err := json.Unmarshal(val, &settings); err != nil {
		return nil, false
	}
	return settings, true
}

// SetSettings stores a tenant's settings map with the configured TTL.
func (c *CatalogCache) SetSettings(ctx context.Context, tenantID uuid.UUID, settings models.SiteSettings) {
	payload, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, settingsKeyPrefix+tenantID.String(), payload, c.ttl).Err(); err != nil {
		slog.Warn("settings cache set error", "tenant", tenantID, "error", err)
	}
}

// InvalidateTree drops a tenant's cached tree after a category mutation.
func (c *CatalogCache) InvalidateTree(ctx context.Context, tenantID uuid.UUID) {
	if err := c.client.Del(ctx, treeKeyPrefix+tenantID.String()).Err(); err != nil {
		slog.Warn("catalog cache invalidate error", "tenant", tenantID, "error", err)
	}
}

// InvalidateSettings drops a tenant's cached settings after an update.
func (c *CatalogCache) InvalidateSettings(ctx context.Context, tenantID uuid.UUID) {
	if err := c.client.Del(ctx, settingsKeyPrefix+tenantID.String()).Err(); err != nil {
		slog.Warn("settings cache invalidate error", "tenant", tenantID, "error", err)
	}
}
