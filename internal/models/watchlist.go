// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

// Package models defines the domain types shared across Observatoire:
// watchlist entries, study alerts, literature hits, and the raw provider
// record shapes the normalizer consumes.
package models

import "fmt"

// Category identifies the kind of tradable/observable asset a watchlist
// entry refers to. The set is closed; providers are selected per category.
type Category string

// Watchlist entry categories.
const (
	CategoryIndex     Category = "index"
	CategoryEquity    Category = "equity"
	CategoryCrypto    Category = "crypto"
	CategoryBond      Category = "bond"
	CategoryCommodity Category = "commodity"
)

// Categories lists all valid categories in display order.
var Categories = []Category{
	CategoryIndex,
	CategoryEquity,
	CategoryCrypto,
	CategoryBond,
	CategoryCommodity,
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryIndex, CategoryEquity, CategoryCrypto, CategoryBond, CategoryCommodity:
		return true
	}
	return false
}

// ParseCategory converts a string into a Category, rejecting unknown values.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// RawQuote is a decoded provider record. Keys vary by provider convention:
// index/equity feeds use "Ticker"/"Dernier"/"Variation", crypto feeds use
// "Variation 24h" instead of "Variation", and bond/commodity feeds add
// "Unité". The normalizer collapses these differences; everything upstream
// of it treats the record as an opaque string map.
type RawQuote map[string]string

// Provider-convention field keys found in RawQuote records.
const (
	RawKeyTicker    = "Ticker"
	RawKeyName      = "Nom"
	RawKeyLast      = "Dernier"
	RawKeyChange    = "Variation"
	RawKeyChange24h = "Variation 24h"
	RawKeyUnit      = "Unité"
	RawKeyCurrency  = "Devise"
)

// WatchlistEntry is one user-pinned asset on the personal board.
//
// The composite key (Category, ExternalID) uniquely identifies an entry;
// Category and ExternalID are immutable once created, the remaining fields
// are overwritten in full whenever the same key is re-added. The entry holds
// the value as of add-time (or the latest re-add); there is no background
// refresh.
type WatchlistEntry struct {
	// Category tags the asset kind. Immutable.
	Category Category `json:"category"`

	// ExternalID is the provider-assigned symbol/ticker/id, unique within
	// Category. Immutable.
	ExternalID string `json:"external_id"`

	// DisplayName is the human label; always overwritten by the latest
	// normalize.
	DisplayName string `json:"display_name"`

	// LastValue is the most recently observed quote, kept as the provider
	// formatted it (numeric string or pre-formatted value).
	LastValue string `json:"last_value"`

	// Change is the single canonical variation string (percentage),
	// regardless of which provider field name supplied it.
	Change string `json:"change"`

	// Unit is an optional descriptive suffix (bonds, commodities).
	Unit string `json:"unit,omitempty"`

	// Currency is an optional currency code.
	Currency string `json:"currency,omitempty"`
}

// Key returns the composite registry key for the entry.
func (e WatchlistEntry) Key() EntryKey {
	return EntryKey{Category: e.Category, ExternalID: e.ExternalID}
}

// EntryKey is the composite key (category, externalId) identifying a
// watchlist entry.
type EntryKey struct {
	Category   Category
	ExternalID string
}

// String renders the key for logs and diagnostics.
func (k EntryKey) String() string {
	return string(k.Category) + "/" + k.ExternalID
}
