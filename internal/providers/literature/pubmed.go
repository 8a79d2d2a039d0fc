// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

// Package literature implements the fixed enumeration of literature search
// collaborators queried during alert fan-out. Each source maps its upstream
// response shape onto models.LiteratureHit; sources without a public query
// API are link-only and never fail.
package literature

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/observatoire-global/observatoire/internal/metrics"
	"github.com/observatoire-global/observatoire/internal/models"
)

// PubMed queries the NCBI E-utilities (esearch + esummary).
//
// NCBI policy caps anonymous clients at 3 requests per second; the limiter
// gates every outgoing call. An API key raises the cap server-side but the
// client keeps the conservative local limit.
type PubMed struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewPubMed creates the PubMed source. apiKey may be empty.
func NewPubMed(timeout time.Duration, apiKey string) *PubMed {
	return &PubMed{
		baseURL: "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(3), 3),
	}
}

func (p *PubMed) Label() string { return "pubmed" }

// DeepLink returns the hosted PubMed search page for the term.
func (p *PubMed) DeepLink(term string) string {
	return "https://pubmed.ncbi.nlm.nih.gov/?term=" + url.QueryEscape(term)
}

type esearchResponse struct {
	ESearchResult struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

type esummaryDoc struct {
	UID     string `json:"uid"`
	Title   string `json:"title"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

// Search runs esearch to resolve matching PMIDs, then esummary to hydrate
// titles and author lists.
func (p *PubMed) Search(ctx context.Context, term string, limit int) ([]models.LiteratureHit, int, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", term)
	params.Set("retmode", "json")
	params.Set("retmax", strconv.Itoa(limit))
	if p.apiKey != "" {
		params.Set("api_key", p.apiKey)
	}

	var search esearchResponse
	if err := p.getJSON(ctx, p.baseURL+"/esearch.fcgi?"+params.Encode(), &search); err != nil {
		metrics.RecordProviderRequest("pubmed", "failure", time.Since(start))
		return nil, models.TotalUnknown, fmt.Errorf("pubmed esearch: %w", err)
	}

	total := models.TotalUnknown
	if n, err := strconv.Atoi(search.ESearchResult.Count); err == nil {
		total = n
	}

	if len(search.ESearchResult.IDList) == 0 {
		metrics.RecordProviderRequest("pubmed", "success", time.Since(start))
		return []models.LiteratureHit{}, total, nil
	}

	params = url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(search.ESearchResult.IDList, ","))
	params.Set("retmode", "json")
	if p.apiKey != "" {
		params.Set("api_key", p.apiKey)
	}

	var summary esummaryResponse
	if err := p.getJSON(ctx, p.baseURL+"/esummary.fcgi?"+params.Encode(), &summary); err != nil {
		metrics.RecordProviderRequest("pubmed", "failure", time.Since(start))
		return nil, models.TotalUnknown, fmt.Errorf("pubmed esummary: %w", err)
	}

	hits := make([]models.LiteratureHit, 0, len(search.ESearchResult.IDList))
	for _, pmid := range search.ESearchResult.IDList {
		raw, ok := summary.Result[pmid]
		if !ok {
			continue
		}
		var doc esummaryDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}

		authors := make([]string, 0, len(doc.Authors))
		for _, a := range doc.Authors {
			authors = append(authors, a.Name)
		}

		hits = append(hits, models.LiteratureHit{
			Title:            doc.Title,
			TitleLink:        "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/",
			AuthorsOrSponsor: strings.Join(authors, ", "),
			SourceLabel:      p.Label(),
		})
	}

	metrics.RecordProviderRequest("pubmed", "success", time.Since(start))
	return hits, total, nil
}

// getJSON performs a rate-limited GET and decodes the JSON body.
func (p *PubMed) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
