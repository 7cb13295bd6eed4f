// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks an order through its lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether the status is a known lifecycle state.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// orderStatusFlow lists the statuses each state may move to.
var orderStatusFlow = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

// CanTransition reports whether an order may move from one status to
// another. Delivered and cancelled are terminal.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderStatusFlow[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ErrOrderNumberExhausted is returned when no free order number could be
// found after the maximum number of collision-check attempts.
var ErrOrderNumberExhausted = errors.New("could not allocate a unique order number")

// orderNumberPattern matches CMD-<year>-<month><day>-<4 digits>.
var orderNumberPattern = regexp.MustCompile(`^CMD-\d{4}-\d{4}-\d{4}$`)

// FormatOrderNumber builds a candidate order number for the given time
// and 4-digit random suffix, e.g. CMD-2026-0831-4821.
func FormatOrderNumber(t time.Time, suffix int) string {
	return fmt.Sprintf("CMD-%04d-%02d%02d-%04d", t.Year(), int(t.Month()), t.Day(), suffix%10000)
}

// ValidOrderNumber reports whether s has the CMD-YYYY-MMDD-NNNN shape.
func ValidOrderNumber(s string) bool {
	return orderNumberPattern.MatchString(s)
}

// Order is a placed customer order. Contact details and line items are
// snapshotted at checkout so later product edits do not rewrite history.
type Order struct {
	ID            uuid.UUID   `json:"id"`
	TenantID      uuid.UUID   `json:"tenant_id"`
	Number        string      `json:"number"`
	UserID        *uuid.UUID  `json:"user_id"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	Status        OrderStatus `json:"status"`
	TotalCents    int64       `json:"total_cents"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem is one snapshotted line of an order.
type OrderItem struct {
	ID             int64     `json:"id"`
	OrderID        uuid.UUID `json:"order_id"`
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Reference      string    `json:"reference"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
}

// LineTotal returns the item's extended price.
func (i *OrderItem) LineTotal() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}
