// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

package services

import (
	"context"
	"time"

	"github.com/observatoire-global/observatoire/internal/session"
)

// SessionSweeperService runs the idle-session sweeper under supervision.
type SessionSweeperService struct {
	manager  *session.Manager
	interval time.Duration
}

// NewSessionSweeperService creates the wrapper.
func NewSessionSweeperService(manager *session.Manager, interval time.Duration) *SessionSweeperService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SessionSweeperService{
		manager:  manager,
		interval: interval,
	}
}

// Serve implements suture.Service.
func (s *SessionSweeperService) Serve(ctx context.Context) error {
	return s.manager.RunSweeper(ctx, s.interval)
}

// String identifies the service in supervisor logs.
func (s *SessionSweeperService) String() string {
	return "session-sweeper"
}
