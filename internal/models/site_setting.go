// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Well-known setting keys. Theming and company identity are plain
// key-value settings scoped per tenant.
const (
	SettingCompanyName    = "company.name"
	SettingContactEmail   = "company.contact_email"
	SettingThemePrimary   = "theme.primary_color"
	SettingThemeSecondary = "theme.secondary_color"
	SettingThemeLogoURL   = "theme.logo_url"
	SettingCurrency       = "catalog.currency"
)

// SiteSetting represents a single configuration key-value pair for a tenant.
type SiteSetting struct {
	TenantID  string    `json:"tenant_id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SiteSettings is a convenience map for accessing settings by key. It is
// loaded explicitly (at startup or on demand) and threaded through
// handlers rather than living in an ambient singleton.
type SiteSettings map[string]string

// Get returns the value for a key, or the fallback if the key is absent
// or empty.
func (s SiteSettings) Get(key, fallback string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return fallback
}

// DefaultSettings returns the fallback values applied when a tenant has
// not customized its settings yet.
func DefaultSettings() SiteSettings {
	return SiteSettings{
		SettingCompanyName:    "PartsHub",
		SettingThemePrimary:   "#1d4ed8",
		SettingThemeSecondary: "#f59e0b",
		SettingCurrency:       "EUR",
	}
}

// PublicKeys lists the settings exposed to the unauthenticated storefront.
func PublicKeys() []string {
	return []string{
		SettingCompanyName,
		SettingThemePrimary,
		SettingThemeSecondary,
		SettingThemeLogoURL,
		SettingCurrency,
	}
}
