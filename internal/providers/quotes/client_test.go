// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/observatoire-global/observatoire/internal/models"
)

func TestClient_FetchQuote(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quotes/crypto/bitcoin" {
			t.Errorf("path = %q, want /quotes/crypto/bitcoin", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Ticker":"bitcoin","Nom":"Bitcoin","Dernier":63000.5,"Variation 24h":"+0.8%","Devise":"USD"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	record, err := c.FetchQuote(context.Background(), models.CategoryCrypto, "bitcoin")
	if err != nil {
		t.Fatalf("FetchQuote() error: %v", err)
	}

	want := models.RawQuote{
		"Ticker":        "bitcoin",
		"Nom":           "Bitcoin",
		"Dernier":       "63000.5",
		"Variation 24h": "+0.8%",
		"Devise":        "USD",
	}
	if len(record) != len(want) {
		t.Fatalf("record = %v, want %v", record, want)
	}
	for k, v := range want {
		if record[k] != v {
			t.Errorf("record[%q] = %q, want %q", k, record[k], v)
		}
	}
}

func TestClient_FetchQuote_UnknownCategory(t *testing.T) {
	t.Parallel()

	c := NewClient("http://unused.invalid", time.Second)
	if _, err := c.FetchQuote(context.Background(), models.Category("fx"), "EURUSD"); err == nil {
		t.Error("FetchQuote() = nil error for unknown category, want error")
	}
}

func TestClient_FetchQuote_UpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "instrument not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.FetchQuote(context.Background(), models.CategoryEquity, "NOPE"); err == nil {
		t.Error("FetchQuote() = nil error on HTTP 404, want error")
	}
}

func TestClient_FetchQuote_RetriesOn429(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"Ticker":"AAPL","Dernier":"190.5"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	record, err := c.FetchQuote(context.Background(), models.CategoryEquity, "AAPL")
	if err != nil {
		t.Fatalf("FetchQuote() error: %v", err)
	}
	if calls != 2 {
		t.Errorf("upstream calls = %d, want 2 (one retry)", calls)
	}
	if record["Ticker"] != "AAPL" {
		t.Errorf("record[Ticker] = %q, want AAPL", record["Ticker"])
	}
}

func TestClient_FetchQuote_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.FetchQuote(ctx, models.CategoryEquity, "AAPL"); err == nil {
		t.Error("FetchQuote() = nil error with cancelled context, want error")
	}
}

func TestCoerceRecord(t *testing.T) {
	t.Parallel()

	record := coerceRecord(map[string]interface{}{
		"Ticker":  "OAT10Y",
		"Dernier": 3.12,
		"Actif":   true,
		"Extra":   nil,
		"Nested":  map[string]interface{}{"ignored": 1},
	})

	if record["Ticker"] != "OAT10Y" {
		t.Errorf("Ticker = %q, want OAT10Y", record["Ticker"])
	}
	if record["Dernier"] != "3.12" {
		t.Errorf("Dernier = %q, want 3.12", record["Dernier"])
	}
	if record["Actif"] != "true" {
		t.Errorf("Actif = %q, want true", record["Actif"])
	}
	if _, ok := record["Extra"]; ok {
		t.Error("null field should be dropped")
	}
	if _, ok := record["Nested"]; ok {
		t.Error("nested field should be dropped")
	}
}

// fakeFetcher implements Fetcher for breaker pass-through tests.
type fakeFetcher struct {
	record models.RawQuote
	err    error
}

func (f *fakeFetcher) FetchQuote(ctx context.Context, category models.Category, identifier string) (models.RawQuote, error) {
	return f.record, f.err
}

func TestBreakerFetcher_PassThrough(t *testing.T) {
	t.Parallel()

	want := models.RawQuote{"Ticker": "bitcoin", "Dernier": "63000"}
	b := NewBreakerFetcher(&fakeFetcher{record: want})

	got, err := b.FetchQuote(context.Background(), models.CategoryCrypto, "bitcoin")
	if err != nil {
		t.Fatalf("FetchQuote() error: %v", err)
	}
	if got["Ticker"] != "bitcoin" {
		t.Errorf("record = %v, want %v", got, want)
	}
}

func TestBreakerFetcher_PropagatesError(t *testing.T) {
	t.Parallel()

	wantErr := context.DeadlineExceeded
	b := NewBreakerFetcher(&fakeFetcher{err: wantErr})

	if _, err := b.FetchQuote(context.Background(), models.CategoryCrypto, "bitcoin"); err == nil {
		t.Error("FetchQuote() = nil error, want propagated failure")
	}
}
