// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

package models

import (
	"fmt"
	"time"
)

// DeliveryMode is the requested notification channel for a study alert.
type DeliveryMode string

// Study alert delivery modes.
const (
	DeliveryDashboard DeliveryMode = "dashboard"
	DeliveryEmail     DeliveryMode = "email"
)

// Valid reports whether m is a known delivery mode.
func (m DeliveryMode) Valid() bool {
	return m == DeliveryDashboard || m == DeliveryEmail
}

// ParseDeliveryMode converts a string into a DeliveryMode, rejecting
// unknown values.
func ParseDeliveryMode(s string) (DeliveryMode, error) {
	m := DeliveryMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown delivery mode %q", s)
	}
	return m, nil
}

// StudyAlert is a saved literature search term plus a desired notification
// channel. Alerts are append-only: created by explicit user submission,
// never mutated, and destroyed only when the owning session ends.
//
// Email mode stores a contact address but has no fulfillment path; the alert
// is a saved-search bookmark evaluated on demand, not a live trigger.
type StudyAlert struct {
	// Term is the free-text query string. Not deduplicated; multiple
	// alerts may share a term.
	Term string `json:"term"`

	// Mode is the requested delivery channel.
	Mode DeliveryMode `json:"mode"`

	// ContactAddress is required non-empty when Mode is email, ignored
	// otherwise.
	ContactAddress string `json:"contact_address,omitempty"`

	// CreatedAt records submission time, for display ordering diagnostics.
	CreatedAt time.Time `json:"created_at"`
}
