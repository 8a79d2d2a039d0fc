// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

// Package session manages per-visitor dashboard state. Each session owns its
// own watchlist and alert registries; nothing is shared across sessions and
// nothing survives the process. An idle sweeper reclaims abandoned sessions.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/observatoire-global/observatoire/internal/alerts"
	"github.com/observatoire-global/observatoire/internal/logging"
	"github.com/observatoire-global/observatoire/internal/metrics"
	"github.com/observatoire-global/observatoire/internal/watchlist"
)

// Session is the unit of state isolation. Two sessions never observe each
// other's watchlist entries or alerts.
type Session struct {
	ID        string
	Watchlist *watchlist.Registry
	Alerts    *alerts.Registry

	mu       sync.Mutex
	lastSeen time.Time
}

// Touch marks the session as recently used.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen returns the time of the most recent use.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Manager creates, resolves and expires sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idleTTL  time.Duration
	now      func() time.Time
}

// NewManager creates a session manager whose sessions expire after idleTTL
// without use.
func NewManager(idleTTL time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Create allocates a new session with fresh, empty registries.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Watchlist: watchlist.NewRegistry(),
		Alerts:    alerts.NewRegistry(),
		lastSeen:  m.now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	total := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveSessions.Set(float64(total))
	return s
}

// Get resolves a session by ID and refreshes its idle clock. Returns
// (nil, false) for unknown or already expired IDs.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}

	s.Touch(m.now())
	return s, true
}

// GetOrCreate resolves the session for id, falling back to a new session
// when id is empty or unknown. The second return reports whether a new
// session was created.
func (m *Manager) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}
	return m.Create(), true
}

// Destroy removes a session. No-op for unknown IDs.
func (m *Manager) Destroy(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	total := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveSessions.Set(float64(total))
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// TotalWatchlistEntries sums the board sizes of every live session. Feeds the
// watchlist_entries gauge.
func (m *Manager) TotalWatchlistEntries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, s := range m.sessions {
		total += s.Watchlist.Len()
	}
	return total
}

// Sweep removes every session idle longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	var expired []string
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(m.sessions, id)
	}
	total := len(m.sessions)
	m.mu.Unlock()

	if len(expired) > 0 {
		metrics.SessionsExpiredTotal.Add(float64(len(expired)))
		metrics.ActiveSessions.Set(float64(total))
	}

	return len(expired)
}

// RunSweeper sweeps on the given interval until ctx is cancelled. It is
// shaped to run as a supervised service.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) error {
	logger := logging.WithComponent("session-sweeper")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				logger.Info().
					Int("expired", n).
					Int("remaining", m.Len()).
					Msg("idle sessions reclaimed")
			}
		}
	}
}
