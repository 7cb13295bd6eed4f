// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"partshub/internal/models"
)

// Validation limits for catalog entities.
const (
	maxNameLen        = 255
	maxReferenceLen   = 100
	maxDescriptionLen = 10_000
	maxLabelLen       = 255
	maxOptionLen      = 200
	maxOptions        = 100
	maxCartQuantity   = 1_000
	maxSettingLen     = 2_000
)

// validate is the shared validator instance used for request payloads.
var validate = validator.New()

// validateCategory checks category inputs and returns the first error found.
func validateCategory(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 255 characters)."
	}
	if strings.Contains(name, models.PathSeparator) {
		return "Name cannot contain the breadcrumb separator."
	}
	return ""
}

// validateProduct checks product inputs and returns the first error found.
func validateProduct(name, reference, description string, priceCents int64, stock int) string {
	if msg := validateCategory(name); msg != "" {
		return msg
	}
	if strings.TrimSpace(reference) == "" {
		return "Reference is required."
	}
	if utf8.RuneCountInString(reference) > maxReferenceLen {
		return "Reference is too long (max 100 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 10,000 characters)."
	}
	if priceCents < 0 {
		return "Price cannot be negative."
	}
	if stock < 0 {
		return "Stock cannot be negative."
	}
	return ""
}

// validateField checks custom field inputs and returns the first error found.
func validateField(name string, label string, fieldType models.FieldType, options []string) string {
	if !models.ValidFieldName(name) {
		return "Field name must start with a lowercase letter and contain only lowercase letters, digits, and underscores."
	}
	return validateFieldAttrs(label, fieldType, options)
}

// validateFieldAttrs checks the mutable field attributes, used on updates
// where the immutable machine name is not part of the payload.
func validateFieldAttrs(label string, fieldType models.FieldType, options []string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "Label is required."
	}
	if utf8.RuneCountInString(label) > maxLabelLen {
		return "Label is too long (max 255 characters)."
	}
	if !fieldType.Valid() {
		return "Unknown field type."
	}
	if fieldType.HasOptions() && len(options) == 0 {
		return "Select fields need at least one option."
	}
	if !fieldType.HasOptions() && len(options) > 0 {
		return "Only select fields can have options."
	}
	if len(options) > maxOptions {
		return "Too many options (max 100)."
	}
	for _, opt := range options {
		if utf8.RuneCountInString(opt) > maxOptionLen {
			return "Option is too long (max 200 characters)."
		}
	}
	return ""
}
