// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

// Package main is the entry point for the Observatoire server.
//
// Observatoire is a session-scoped dashboard over heterogeneous public data:
// market quotes (indices, equities, crypto, bonds, commodities), Statistics
// Canada macro indicators, and a literature alert view aggregated live from
// ten scholarly sources.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, optional YAML file, OBS_* environment
//     variables (koanf v2)
//  2. Logging: zerolog, configured from the loaded settings
//  3. Session manager: in-memory per-visitor state with an idle sweeper
//  4. Providers: market-data client behind a circuit breaker, literature
//     sources, StatCan WDS client
//  5. HTTP server: chi router with the standardized response envelope
//  6. Supervisor tree: suture supervision of the server and the sweeper
//
// Graceful shutdown is handled on SIGINT and SIGTERM: the server stops
// accepting connections, in-flight requests get 10 seconds to drain, and the
// supervisor tree is torn down.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/observatoire-global/observatoire/internal/alerts"
	"github.com/observatoire-global/observatoire/internal/api"
	"github.com/observatoire-global/observatoire/internal/cache"
	"github.com/observatoire-global/observatoire/internal/config"
	"github.com/observatoire-global/observatoire/internal/indicators"
	"github.com/observatoire-global/observatoire/internal/logging"
	"github.com/observatoire-global/observatoire/internal/metrics"
	"github.com/observatoire-global/observatoire/internal/providers/literature"
	"github.com/observatoire-global/observatoire/internal/providers/quotes"
	"github.com/observatoire-global/observatoire/internal/session"
	"github.com/observatoire-global/observatoire/internal/supervisor"
	"github.com/observatoire-global/observatoire/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Dur("session_idle_ttl", cfg.Session.IdleTTL).
		Int("literature_limit", cfg.Literature.PerSourceLimit).
		Msg("Starting Observatoire")

	sessions := session.NewManager(cfg.Session.IdleTTL)
	metrics.RegisterWatchlistEntriesGauge(func() float64 {
		return float64(sessions.TotalWatchlistEntries())
	})

	fetcher := quotes.NewBreakerFetcher(quotes.NewClient(cfg.Quotes.BaseURL, cfg.Quotes.Timeout))
	quoteCache := cache.New("quotes", cfg.Quotes.CacheTTL)
	defer quoteCache.Stop()

	indicatorCache := cache.New("indicators", cfg.Indicators.CacheTTL)
	defer indicatorCache.Stop()

	fanout := alerts.NewFanout(literature.DefaultSources(cfg.Literature))
	statcan := indicators.NewClient(cfg.Indicators.BaseURL, cfg.Indicators.Timeout)

	handler := api.NewHandler(cfg, sessions, fetcher, quoteCache, indicatorCache, fanout, statcan)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddBackgroundService(services.NewSessionSweeperService(sessions, cfg.Session.SweepInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Observatoire stopped gracefully")
}
