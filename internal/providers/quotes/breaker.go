// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

package quotes

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/observatoire-global/observatoire/internal/logging"
	"github.com/observatoire-global/observatoire/internal/metrics"
	"github.com/observatoire-global/observatoire/internal/models"
)

// BreakerFetcher wraps a Fetcher with a circuit breaker so a dead or slow
// market-data gateway fails fast instead of tying up request handlers.
//
// The breaker uses real time for its interval and timeout calculations. The
// timing determines when to recover from failures, not data integrity; unit
// tests should exercise the wrapped fetcher directly.
type BreakerFetcher struct {
	fetcher Fetcher
	cb      *gobreaker.CircuitBreaker[models.RawQuote]
	name    string
}

// NewBreakerFetcher wraps fetcher with circuit breaker protection.
// Configuration:
//   - max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - opens after 60% failure rate with minimum 10 requests
func NewBreakerFetcher(fetcher Fetcher) *BreakerFetcher {
	cbName := "market-data"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[models.RawQuote](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerFetcher{
		fetcher: fetcher,
		cb:      cb,
		name:    cbName,
	}
}

// FetchQuote retrieves a raw quote with circuit breaker protection.
func (b *BreakerFetcher) FetchQuote(ctx context.Context, category models.Category, identifier string) (models.RawQuote, error) {
	record, err := b.cb.Execute(func() (models.RawQuote, error) {
		return b.fetcher.FetchQuote(ctx, category, identifier)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.ProviderRequestsTotal.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		}
		return nil, err
	}

	return record, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
