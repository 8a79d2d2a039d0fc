// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

package alerts

import (
	"testing"
	"time"

	"github.com/observatoire-global/observatoire/internal/models"
)

func TestRegistry_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		term    string
		mode    models.DeliveryMode
		contact string
		wantErr bool
	}{
		{
			name: "dashboard alert",
			term: "semaglutide",
			mode: models.DeliveryDashboard,
		},
		{
			name:    "email alert with contact",
			term:    "semaglutide",
			mode:    models.DeliveryEmail,
			contact: "chercheur@example.org",
		},
		{
			name:    "email alert without contact is rejected",
			term:    "semaglutide",
			mode:    models.DeliveryEmail,
			wantErr: true,
		},
		{
			name:    "empty term is rejected",
			mode:    models.DeliveryDashboard,
			wantErr: true,
		},
		{
			name:    "unknown mode is rejected",
			term:    "aspirin",
			mode:    models.DeliveryMode("sms"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := NewRegistry()
			alert, err := r.Create(tt.term, tt.mode, tt.contact)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Create() = nil error, want validation error")
				}
				if r.Len() != 0 {
					t.Errorf("Len() = %d after rejected create, want 0", r.Len())
				}
				return
			}

			if err != nil {
				t.Fatalf("Create() error: %v", err)
			}
			if alert.Term != tt.term || alert.Mode != tt.mode {
				t.Errorf("Create() = %+v, want term=%q mode=%q", alert, tt.term, tt.mode)
			}
			if alert.CreatedAt.IsZero() {
				t.Error("Create() left CreatedAt zero")
			}
			if r.Len() != 1 {
				t.Errorf("Len() = %d, want 1", r.Len())
			}
		})
	}
}

func TestRegistry_ContactDroppedForDashboardMode(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	alert, err := r.Create("aspirin", models.DeliveryDashboard, "ignored@example.org")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if alert.ContactAddress != "" {
		t.Errorf("ContactAddress = %q for dashboard mode, want empty", alert.ContactAddress)
	}
}

func TestRegistry_AppendOnlyInsertionOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	terms := []string{"semaglutide", "metformine", "aspirin"}
	for _, term := range terms {
		if _, err := r.Create(term, models.DeliveryDashboard, ""); err != nil {
			t.Fatalf("Create(%q) error: %v", term, err)
		}
	}

	// Duplicate terms are allowed; there is no dedup key.
	if _, err := r.Create("semaglutide", models.DeliveryDashboard, ""); err != nil {
		t.Fatalf("Create(duplicate) error: %v", err)
	}

	got := r.List()
	want := append(terms, "semaglutide")
	if len(got) != len(want) {
		t.Fatalf("List() length = %d, want %d", len(got), len(want))
	}
	for i, term := range want {
		if got[i].Term != term {
			t.Errorf("List()[%d].Term = %q, want %q", i, got[i].Term, term)
		}
	}
}

func TestRegistry_ListReturnsCopy(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if _, err := r.Create("semaglutide", models.DeliveryDashboard, ""); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	got := r.List()
	got[0].Term = "tampered"

	if r.List()[0].Term != "semaglutide" {
		t.Error("mutating List() result must not affect the registry")
	}
}

func TestRegistry_CreatedAtUsesClock(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	r := NewRegistry()
	r.now = func() time.Time { return fixed }

	alert, err := r.Create("aspirin", models.DeliveryDashboard, "")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if !alert.CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v, want %v", alert.CreatedAt, fixed)
	}
}
