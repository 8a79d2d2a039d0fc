// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

// Package alerts implements the session-scoped study-alert registry and the
// read-time fan-out protocol that aggregates literature search results from
// every configured source into one deterministic display bundle.
package alerts

import (
	"sync"
	"time"

	"github.com/observatoire-global/observatoire/internal/models"
	"github.com/observatoire-global/observatoire/internal/validation"
)

// createInput carries alert creation parameters through validation.
// The email contract is: delivery mode "email" requires a non-empty
// contact address. No format constraint beyond non-empty is imposed; the
// original feed accepted any address string.
type createInput struct {
	Term           string              `validate:"required"`
	Mode           models.DeliveryMode `validate:"required,oneof=dashboard email"`
	ContactAddress string              `validate:"required_if=Mode email"`
}

// Registry is the session-scoped, append-only store of study alerts.
//
// Alerts are never mutated and never individually deleted; the whole
// registry is discarded when the owning session ends. Insertion order is
// preserved for display.
type Registry struct {
	mu     sync.RWMutex
	alerts []models.StudyAlert
	now    func() time.Time
}

// NewRegistry creates an empty alert registry.
func NewRegistry() *Registry {
	return &Registry{now: time.Now}
}

// Create validates and appends a new study alert.
//
// Validation enforces the email contract (mode=email requires a non-empty
// contact address) and the closed delivery-mode set. On failure the
// returned *validation.RequestValidationError names the offending field and
// no record is stored.
func (r *Registry) Create(term string, mode models.DeliveryMode, contactAddress string) (models.StudyAlert, error) {
	input := createInput{
		Term:           term,
		Mode:           mode,
		ContactAddress: contactAddress,
	}
	if err := validation.ValidateStruct(&input); err != nil {
		return models.StudyAlert{}, err
	}

	alert := models.StudyAlert{
		Term:      term,
		Mode:      mode,
		CreatedAt: r.now(),
	}
	if mode == models.DeliveryEmail {
		alert.ContactAddress = contactAddress
	}

	r.mu.Lock()
	r.alerts = append(r.alerts, alert)
	r.mu.Unlock()

	return alert, nil
}

// List returns all alerts in insertion order.
// The returned slice is a copy; mutating it does not affect the registry.
func (r *Registry) List() []models.StudyAlert {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.StudyAlert, len(r.alerts))
	copy(out, r.alerts)
	return out
}

// Len returns the number of stored alerts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.alerts)
}
