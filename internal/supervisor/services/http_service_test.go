// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/observatoire-global/observatoire/internal/session"
)

type fakeServer struct {
	listenErr error
	stopped   chan struct{}
}

func newFakeServer(listenErr error) *fakeServer {
	return &fakeServer{
		listenErr: listenErr,
		stopped:   make(chan struct{}),
	}
}

func (f *fakeServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stopped
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(_ context.Context) error {
	close(f.stopped)
	return nil
}

func TestHTTPServerService_GracefulShutdown(t *testing.T) {
	t.Parallel()

	svc := NewHTTPServerService(newFakeServer(nil), time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancellation")
	}
}

func TestHTTPServerService_ListenFailure(t *testing.T) {
	t.Parallel()

	bindErr := errors.New("listen tcp :8480: address already in use")
	svc := NewHTTPServerService(newFakeServer(bindErr), time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, bindErr) {
		t.Errorf("Serve() = %v, want wrapped bind error", err)
	}
}

func TestHTTPServerService_String(t *testing.T) {
	t.Parallel()

	svc := NewHTTPServerService(newFakeServer(nil), 0)
	if svc.String() != "http-server" {
		t.Errorf("String() = %q, want http-server", svc.String())
	}
}

func TestSessionSweeperService_StopsOnCancel(t *testing.T) {
	t.Parallel()

	svc := NewSessionSweeperService(session.NewManager(time.Hour), 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancellation")
	}

	if svc.String() != "session-sweeper" {
		t.Errorf("String() = %q, want session-sweeper", svc.String())
	}
}
