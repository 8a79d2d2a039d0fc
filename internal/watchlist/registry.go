// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

package watchlist

import (
	"sync"

	"github.com/observatoire-global/observatoire/internal/models"
)

// Registry is the session-scoped, keyed store of watchlist entries.
//
// Entries are keyed by (category, externalId). Upsert is idempotent: re-adding
// an existing key overwrites the entry in place without duplicating it and
// without moving it from its first-insert position, so the rendered board
// does not reshuffle on refresh-driven re-adds.
//
// A Registry is owned by exactly one session. The mutex exists because the
// HTTP layer may serve overlapping requests for the same session; sessions
// never share a Registry.
type Registry struct {
	mu      sync.RWMutex
	entries map[models.EntryKey]*models.WatchlistEntry
	order   []models.EntryKey
}

// NewRegistry creates an empty watchlist registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[models.EntryKey]*models.WatchlistEntry),
	}
}

// Upsert inserts the entry, or fully replaces the existing entry at the same
// (category, externalId) key. The replacement is a full overwrite, not a
// merge. First-insert position in the enumeration order is preserved.
func (r *Registry) Upsert(entry models.WatchlistEntry) {
	key := entry.Key()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[key]; ok {
		*existing = entry
		return
	}

	e := entry
	r.entries[key] = &e
	r.order = append(r.order, key)
}

// Remove deletes the entry at (category, externalId) if present.
// Removing an absent key is a silent no-op.
func (r *Registry) Remove(category models.Category, externalID string) {
	key := models.EntryKey{Category: category, ExternalID: externalID}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[key]; !ok {
		return
	}

	delete(r.entries, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// List returns all current entries in insertion order of first upsert.
// The returned slice is a copy; mutating it does not affect the registry.
func (r *Registry) List() []models.WatchlistEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.WatchlistEntry, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, *r.entries[key])
	}
	return out
}

// Len returns the number of entries currently on the board.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
