// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a spare part listed in a tenant's catalog. Fixed attributes
// are real columns; tenant-defined attributes live in the CustomFields
// side-table keyed by the field's machine name.
type Product struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	CategoryID  *int64     `json:"category_id"`
	Name        string     `json:"name"`
	Reference   string     `json:"reference"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	PriceCents  int64      `json:"price_cents"`
	Stock       int        `json:"stock"`
	PhotoURL    string     `json:"photo_url"`
	Visible     bool       `json:"visible"`
	Vendable    bool       `json:"vendable"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// CustomFields holds values for tenant-declared product fields,
	// keyed by machine name. Loaded alongside the product row.
	CustomFields map[string]string `json:"custom_fields,omitempty"`
}

// Purchasable reports whether the product can be added to a cart.
func (p *Product) Purchasable() bool {
	return p.Visible && p.Vendable && p.Stock > 0
}
