// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

// Package quotes provides the market-data gateway client. The upstream feed
// returns one flat JSON record per instrument using the feed's own field
// names; records are passed through as raw key/value maps and normalized
// downstream.
package quotes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/observatoire-global/observatoire/internal/metrics"
	"github.com/observatoire-global/observatoire/internal/models"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics.
const maxErrorBodySize = 64 * 1024 // 64KB

// Fetcher retrieves one raw quote record for an instrument.
type Fetcher interface {
	FetchQuote(ctx context.Context, category models.Category, identifier string) (models.RawQuote, error)
}

// Client is the HTTP client for the market-data gateway.
//
// Features:
//   - configurable request timeout
//   - automatic retry with exponential backoff on HTTP 429
//   - Retry-After header support (RFC 6585)
//
// Thread safety: safe for concurrent use.
type Client struct {
	baseURL        string
	client         *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a market-data client for the given gateway base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		maxRetries:     5,
		retryBaseDelay: time.Second,
	}
}

// FetchQuote retrieves the raw record for one instrument. The response is a
// flat JSON object; scalar values are coerced to strings so the record can
// be carried as a uniform map regardless of how the feed typed each field.
func (c *Client) FetchQuote(ctx context.Context, category models.Category, identifier string) (models.RawQuote, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	start := time.Now()
	reqURL := fmt.Sprintf("%s/quotes/%s/%s", c.baseURL, url.PathEscape(string(category)), url.PathEscape(identifier))

	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		metrics.RecordProviderRequest("market-data", "failure", time.Since(start))
		return nil, fmt.Errorf("quote request for %s/%s failed: %w", category, identifier, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordProviderRequest("market-data", "failure", time.Since(start))
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("quote request for %s/%s failed with status %d: %s",
			category, identifier, resp.StatusCode, string(body))
	}

	var fields map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil {
		metrics.RecordProviderRequest("market-data", "failure", time.Since(start))
		return nil, fmt.Errorf("failed to decode quote for %s/%s: %w", category, identifier, err)
	}

	metrics.RecordProviderRequest("market-data", "success", time.Since(start))
	return coerceRecord(fields), nil
}

// coerceRecord flattens a decoded JSON object into a string-valued record.
// Nested values and nulls are dropped; the feed contract is flat scalars.
func coerceRecord(fields map[string]interface{}) models.RawQuote {
	record := make(models.RawQuote, len(fields))
	for key, val := range fields {
		switch v := val.(type) {
		case string:
			record[key] = v
		case float64:
			record[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			record[key] = strconv.FormatBool(v)
		}
	}
	return record
}

// doRequestWithRateLimit performs a GET with automatic HTTP 429 handling.
// Backoff doubles each retry (1s, 2s, 4s, 8s, 16s) and honours Retry-After.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// readBodyForError reads at most maxErrorBodySize of a response body for
// error reporting.
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
