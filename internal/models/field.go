// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
)

// FieldType enumerates the value types a product field can hold.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDate     FieldType = "date"
	FieldTypeURL      FieldType = "url"
	FieldTypeSelect   FieldType = "select"
	FieldTypeBoolean  FieldType = "boolean"
)

// Valid reports whether the field type is one of the supported values.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeTextarea, FieldTypeDate,
		FieldTypeURL, FieldTypeSelect, FieldTypeBoolean:
		return true
	}
	return false
}

// HasOptions reports whether the type carries a list of choices.
func (t FieldType) HasOptions() bool {
	return t == FieldTypeSelect
}

// FieldKind distinguishes fixed system fields from tenant-defined ones.
type FieldKind string

const (
	FieldKindSystem FieldKind = "system"
	FieldKindCustom FieldKind = "custom"
)

// DisplayContext names the two places a field can be rendered.
type DisplayContext string

const (
	ContextCatalog DisplayContext = "catalog"
	ContextProduct DisplayContext = "product"
)

// Valid reports whether the context is catalog or product.
func (c DisplayContext) Valid() bool {
	return c == ContextCatalog || c == ContextProduct
}

// MoveDirection is the requested direction of a manual reorder step.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

var (
	// ErrProtectedField is returned when toggling visibility of a field
	// that must stay visible in the requested context.
	ErrProtectedField = errors.New("field visibility is protected in this context")

	// ErrFieldNameImmutable is returned when an update tries to change a
	// field's machine name after creation.
	ErrFieldNameImmutable = errors.New("field name cannot be changed after creation")

	// ErrDuplicateFieldName is returned when a tenant already has a field
	// with the requested machine name.
	ErrDuplicateFieldName = errors.New("a field with this name already exists")
)

// fieldNamePattern constrains machine names: lowercase start, then
// lowercase letters, digits, or underscores.
var fieldNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidFieldName reports whether name is an acceptable machine name.
func ValidFieldName(name string) bool {
	return fieldNamePattern.MatchString(name)
}

// Fixed system field names. These exist for every tenant and cannot be
// deleted through the field registry.
const (
	FieldName      = "name"
	FieldReference = "reference"
	FieldPrice     = "price"
	FieldStock     = "stock"
	FieldPhotoURL  = "photo_url"
	FieldVisible   = "visible"
	FieldVendable  = "vendable"
)

// photoParkedOrder parks photo_url far past the regular fields so it never
// interleaves with them unless an admin explicitly reorders it.
const photoParkedOrder = 999

// SystemFieldSeed describes the display row seeded for one system field.
type SystemFieldSeed struct {
	Name          string
	DisplayName   string
	ShowInCatalog bool
	ShowInProduct bool
	CatalogOrder  int
	ProductOrder  int
}

// SystemFieldSeeds returns the display rows the idempotent initializer
// inserts for a fresh tenant. Technical fields (visible, vendable,
// photo_url) default to hidden in both contexts.
func SystemFieldSeeds() []SystemFieldSeed {
	return []SystemFieldSeed{
		{Name: FieldName, DisplayName: "Name", ShowInCatalog: true, ShowInProduct: true, CatalogOrder: 1, ProductOrder: 1},
		{Name: FieldReference, DisplayName: "Reference", ShowInCatalog: true, ShowInProduct: true, CatalogOrder: 2, ProductOrder: 2},
		{Name: FieldPrice, DisplayName: "Price", ShowInCatalog: true, ShowInProduct: true, CatalogOrder: 3, ProductOrder: 3},
		{Name: FieldStock, DisplayName: "Stock", ShowInCatalog: true, ShowInProduct: true, CatalogOrder: 4, ProductOrder: 4},
		{Name: FieldPhotoURL, DisplayName: "Photo", ShowInCatalog: false, ShowInProduct: false, CatalogOrder: photoParkedOrder, ProductOrder: photoParkedOrder},
		{Name: FieldVisible, DisplayName: "Visible", ShowInCatalog: false, ShowInProduct: false, CatalogOrder: photoParkedOrder, ProductOrder: photoParkedOrder},
		{Name: FieldVendable, DisplayName: "Saleable", ShowInCatalog: false, ShowInProduct: false, CatalogOrder: photoParkedOrder, ProductOrder: photoParkedOrder},
	}
}

// technicalFields are plumbing flags, not product attributes. They stay
// hidden and cannot be toggled visible through the admin toggler.
var technicalFields = map[string]bool{
	FieldVisible:  true,
	FieldVendable: true,
	FieldPhotoURL: true,
}

// catalogProtected fields cannot be hidden in the catalog context: the
// listing is unusable without a reference, and the photo column is
// rendered through a dedicated code path.
var catalogProtected = map[string]bool{
	FieldReference: true,
	FieldPhotoURL:  true,
}

// IsTechnicalField reports whether name is one of the reserved plumbing
// fields that default to hidden everywhere.
func IsTechnicalField(name string) bool {
	return technicalFields[name]
}

// ToggleRefused reports whether flipping the visibility of field name in
// the given context must be refused. Technical fields can never be made
// visible; catalog-protected fields can never be hidden in the catalog.
func ToggleRefused(name string, ctx DisplayContext, currentlyShown bool) bool {
	if !currentlyShown && IsTechnicalField(name) {
		// Would turn a technical field visible.
		return true
	}
	if currentlyShown && ctx == ContextCatalog && catalogProtected[name] {
		// Would hide a mandatory catalog field.
		return true
	}
	return false
}

// ProductField is a tenant-declared product attribute. The machine name
// is immutable after creation; everything else can be edited.
type ProductField struct {
	ID           int64     `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	Name         string    `json:"name"`
	Label        string    `json:"label"`
	Type         FieldType `json:"type"`
	Required     bool      `json:"required"`
	Options      []string  `json:"options,omitempty"`
	DefaultValue string    `json:"default_value"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProductFieldDisplay is the per-context visibility and ordering row for
// one field (system or custom).
type ProductFieldDisplay struct {
	ID            int64     `json:"id"`
	TenantID      uuid.UUID `json:"tenant_id"`
	FieldName     string    `json:"field_name"`
	FieldType     FieldKind `json:"field_type"`
	DisplayName   string    `json:"display_name"`
	ShowInCatalog bool      `json:"show_in_catalog"`
	ShowInProduct bool      `json:"show_in_product"`
	CatalogOrder  int       `json:"catalog_order"`
	ProductOrder  int       `json:"product_order"`
}

// Order returns the order value relevant to ctx.
func (d *ProductFieldDisplay) Order(ctx DisplayContext) int {
	if ctx == ContextCatalog {
		return d.CatalogOrder
	}
	return d.ProductOrder
}

// Shown returns the visibility flag relevant to ctx.
func (d *ProductFieldDisplay) Shown(ctx DisplayContext) bool {
	if ctx == ContextCatalog {
		return d.ShowInCatalog
	}
	return d.ShowInProduct
}

// SortDisplays orders rows for rendering in ctx: order value ascending,
// ties broken by row id so duplicate order values still render
// deterministically.
func SortDisplays(rows []ProductFieldDisplay, ctx DisplayContext) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Order(ctx) != rows[j].Order(ctx) {
			return rows[i].Order(ctx) < rows[j].Order(ctx)
		}
		return rows[i].ID < rows[j].ID
	})
}

// DisplayOrderUpdate is one half of a swap: the new order value for a
// display row in a single context.
type DisplayOrderUpdate struct {
	ID    int64 `json:"id"`
	Order int   `json:"order"`
}

// SwapDisplayOrder computes the pairwise order swap for a manual up/down
// move over rows already sorted for ctx. It returns exactly two updates,
// or nil when index is out of range or already at the relevant boundary
// (first item moving up, last item moving down). Only the order values of
// the requested context are exchanged; the other context is untouched.
func SwapDisplayOrder(rows []ProductFieldDisplay, index int, dir MoveDirection, ctx DisplayContext) []DisplayOrderUpdate {
	if index < 0 || index >= len(rows) {
		return nil
	}
	neighbor := index - 1
	if dir == MoveDown {
		neighbor = index + 1
	}
	if neighbor < 0 || neighbor >= len(rows) {
		return nil
	}

	a, b := rows[index], rows[neighbor]
	return []DisplayOrderUpdate{
		{ID: a.ID, Order: b.Order(ctx)},
		{ID: b.ID, Order: a.Order(ctx)},
	}
}
