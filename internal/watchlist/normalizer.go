// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

// Package watchlist implements the session-scoped personal board: the
// normalizer that collapses heterogeneous provider records into one
// canonical entry shape, and the keyed, insertion-ordered registry holding
// the entries.
package watchlist

import (
	"errors"
	"fmt"

	"github.com/observatoire-global/observatoire/internal/models"
)

// ErrMissingIdentifier is returned by Normalize when a raw record carries no
// resolvable ticker/id for its category. Callers must drop the candidate
// entry; a keyless entry is never inserted.
var ErrMissingIdentifier = errors.New("raw record has no resolvable identifier")

// Normalize maps a heterogeneous provider record into a WatchlistEntry.
//
// Each category has its own field-name convention; normalization is a
// tagged-variant dispatch with one mapping function per category, all
// producing the same canonical shape. The canonical change field falls back
// to the alternate provider field name when the primary is absent
// ("Variation" vs "Variation 24h"). Pure function, no side effects.
func Normalize(category models.Category, raw models.RawQuote) (models.WatchlistEntry, error) {
	if !category.Valid() {
		return models.WatchlistEntry{}, fmt.Errorf("normalize: unknown category %q", category)
	}

	id := raw[models.RawKeyTicker]
	if id == "" {
		return models.WatchlistEntry{}, fmt.Errorf("normalize %s: %w", category, ErrMissingIdentifier)
	}

	entry := models.WatchlistEntry{
		Category:    category,
		ExternalID:  id,
		DisplayName: displayName(raw, id),
		LastValue:   raw[models.RawKeyLast],
		Currency:    raw[models.RawKeyCurrency],
	}

	switch category {
	case models.CategoryCrypto:
		// Crypto feeds report a 24h variation; older snapshots of the
		// feed used the plain key.
		entry.Change = firstNonEmpty(raw[models.RawKeyChange24h], raw[models.RawKeyChange])
	case models.CategoryBond, models.CategoryCommodity:
		entry.Change = firstNonEmpty(raw[models.RawKeyChange], raw[models.RawKeyChange24h])
		entry.Unit = raw[models.RawKeyUnit]
	case models.CategoryIndex, models.CategoryEquity:
		entry.Change = firstNonEmpty(raw[models.RawKeyChange], raw[models.RawKeyChange24h])
	}

	return entry, nil
}

// displayName prefers the provider's human label, falling back to the
// identifier so the board never renders a blank row.
func displayName(raw models.RawQuote, id string) string {
	if name := raw[models.RawKeyName]; name != "" {
		return name
	}
	return id
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
