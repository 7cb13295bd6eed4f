// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the persistence layer: one store per aggregate
// over database/sql, with multi-row mutations wrapped in transactions.
package store

import "encoding/json"

// encodeTextArray serializes a string slice to JSONB for storage. A nil
// or empty slice is stored as SQL NULL.
func encodeTextArray(values []string) any {
	if len(values) == 0 {
		return nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return b
}

// decodeTextArray deserializes a JSONB column back into a string slice.
// NULL and malformed payloads decode to nil.
func decodeTextArray(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}
