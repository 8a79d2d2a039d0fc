// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

package watchlist

import (
	"testing"

	"github.com/observatoire-global/observatoire/internal/models"
)

func entry(category models.Category, id, value string) models.WatchlistEntry {
	return models.WatchlistEntry{
		Category:    category,
		ExternalID:  id,
		DisplayName: id,
		LastValue:   value,
		Change:      "+0.0%",
	}
}

func TestRegistry_UpsertIdempotent(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	e := entry(models.CategoryEquity, "AAPL", "190.5")

	r.Upsert(e)
	r.Upsert(e)

	got := r.List()
	if len(got) != 1 {
		t.Fatalf("List() length = %d, want 1", len(got))
	}
	if got[0] != e {
		t.Errorf("List()[0] = %+v, want %+v", got[0], e)
	}
}

func TestRegistry_UpsertOverwritesInPlace(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	e1 := entry(models.CategoryCrypto, "bitcoin", "63000")
	e2 := entry(models.CategoryCrypto, "bitcoin", "64100")

	r.Upsert(e1)
	r.Upsert(e2)

	got := r.List()
	if len(got) != 1 {
		t.Fatalf("List() length = %d, want 1", len(got))
	}
	if got[0] != e2 {
		t.Errorf("List()[0] = %+v, want the later entry %+v", got[0], e2)
	}
}

func TestRegistry_OrderStableOnReupsert(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	a := entry(models.CategoryEquity, "AAPL", "190.5")
	b := entry(models.CategoryCrypto, "bitcoin", "63000")
	a2 := entry(models.CategoryEquity, "AAPL", "191.0")

	r.Upsert(a)
	r.Upsert(b)
	r.Upsert(a2)

	got := r.List()
	if len(got) != 2 {
		t.Fatalf("List() length = %d, want 2", len(got))
	}
	if got[0] != a2 {
		t.Errorf("List()[0] = %+v, want re-added entry at original position %+v", got[0], a2)
	}
	if got[1] != b {
		t.Errorf("List()[1] = %+v, want %+v", got[1], b)
	}
}

func TestRegistry_SameIDAcrossCategories(t *testing.T) {
	t.Parallel()

	// The key is composite: equal identifiers in different categories are
	// distinct entries.
	r := NewRegistry()
	r.Upsert(entry(models.CategoryEquity, "GOLD", "17.2"))
	r.Upsert(entry(models.CategoryCommodity, "GOLD", "2350.1"))

	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestRegistry_RemoveAbsentIsNoOp(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Upsert(entry(models.CategoryEquity, "AAPL", "190.5"))

	r.Remove(models.CategoryCrypto, "doesnotexist")

	if r.Len() != 1 {
		t.Errorf("Len() = %d after removing absent key, want 1", r.Len())
	}
}

func TestRegistry_Remove(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	a := entry(models.CategoryEquity, "AAPL", "190.5")
	b := entry(models.CategoryCrypto, "bitcoin", "63000")
	c := entry(models.CategoryIndex, "^GSPC", "5410.2")

	r.Upsert(a)
	r.Upsert(b)
	r.Upsert(c)
	r.Remove(models.CategoryCrypto, "bitcoin")

	got := r.List()
	if len(got) != 2 {
		t.Fatalf("List() length = %d, want 2", len(got))
	}
	if got[0] != a || got[1] != c {
		t.Errorf("List() = %+v, want [%+v %+v]", got, a, c)
	}

	// Removed key can be re-added; it goes to the end.
	r.Upsert(b)
	got = r.List()
	if len(got) != 3 || got[2] != b {
		t.Errorf("List() after re-add = %+v, want %+v last", got, b)
	}
}

func TestRegistry_ListReturnsCopy(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Upsert(entry(models.CategoryEquity, "AAPL", "190.5"))

	got := r.List()
	got[0].LastValue = "0"

	if r.List()[0].LastValue != "190.5" {
		t.Error("mutating List() result must not affect the registry")
	}
}

func TestRegistry_EndToEndScenario(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	apple, err := Normalize(models.CategoryEquity, models.RawQuote{
		"Ticker":    "AAPL",
		"Nom":       "Apple Inc.",
		"Dernier":   "190.5",
		"Variation": "+1.2%",
	})
	if err != nil {
		t.Fatalf("Normalize(AAPL) error: %v", err)
	}
	r.Upsert(apple)

	if r.Len() != 1 {
		t.Fatalf("Len() = %d after adding AAPL, want 1", r.Len())
	}

	bitcoin, err := Normalize(models.CategoryCrypto, models.RawQuote{
		"Ticker":        "bitcoin",
		"Dernier":       "63000",
		"Variation 24h": "+0.8%",
	})
	if err != nil {
		t.Fatalf("Normalize(bitcoin) error: %v", err)
	}
	r.Upsert(bitcoin)

	got := r.List()
	if len(got) != 2 || got[0].ExternalID != "AAPL" || got[1].ExternalID != "bitcoin" {
		t.Fatalf("List() = %+v, want [AAPL bitcoin]", got)
	}

	r.Remove(models.CategoryEquity, "AAPL")

	got = r.List()
	if len(got) != 1 || got[0].ExternalID != "bitcoin" {
		t.Errorf("List() after remove = %+v, want only bitcoin", got)
	}
}
