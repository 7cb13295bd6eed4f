// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package email sends transactional mail through Resend. Sending is
// best-effort: a failed confirmation never fails the order that
// triggered it, callers only get a log line.
package email

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/resend/resend-go/v3"

	"partshub/internal/models"
)

// Sender sends transactional emails. A nil Sender is valid and drops
// all mail, so the app can run without an API key in development.
type Sender struct {
	client *resend.Client
	from   string
}

// NewSender creates a Resend-backed sender. Returns nil if apiKey is
// empty.
func NewSender(apiKey, from string) *Sender {
	if apiKey == "" {
		return nil
	}
	return &Sender{client: resend.NewClient(apiKey), from: from}
}

// SendOrderConfirmation emails the customer a summary of their placed
// order. Errors are logged, not returned.
func (s *Sender) SendOrderConfirmation(to string, order *models.Order, companyName string) {
	if s == nil {
		return
	}

	subject := fmt.Sprintf("Order confirmation %s", order.Number)
	_, err := s.client.Emails.Send(&resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    orderConfirmationBody(order, companyName),
	})
	if err != nil {
		slog.Error("send order confirmation failed", "order", order.Number, "to", to, "error", err)
		return
	}
	slog.Info("order confirmation sent", "order", order.Number, "to", to)
}

// SendOrderStatusUpdate notifies the customer that their order moved to
// a new status. Errors are logged, not returned.
func (s *Sender) SendOrderStatusUpdate(to string, order *models.Order, companyName string) {
	if s == nil {
		return
	}

	subject := fmt.Sprintf("Order %s is now %s", order.Number, order.Status)
	body := fmt.Sprintf(
		`<p>Your order <strong>%s</strong> is now <strong>%s</strong>.</p><p>%s</p>`,
		order.Number, order.Status, companyName,
	)
	_, err := s.client.Emails.Send(&resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	})
	if err != nil {
		slog.Error("send status update failed", "order", order.Number, "to", to, "error", err)
	}
}

func orderConfirmationBody(order *models.Order, companyName string) string {
	var items strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&items, "<li>%dx %s - %s</li>",
			item.Quantity, item.Name, formatCents(item.LineTotal()))
	}

	return fmt.Sprintf(`
		<h2>Thank you for your order!</h2>
		<p>Order number: <strong>%s</strong></p>
		<ul>%s</ul>
		<p><strong>Total: %s</strong></p>
		<p>%s</p>
	`, order.Number, items.String(), formatCents(order.TotalCents), companyName)
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}
