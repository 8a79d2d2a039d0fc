// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

package literature

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/observatoire-global/observatoire/internal/metrics"
	"github.com/observatoire-global/observatoire/internal/models"
)

// Preprint queries the shared bioRxiv/medRxiv API. Both servers speak the
// same protocol behind api.biorxiv.org; the server segment selects which
// corpus is searched.
type Preprint struct {
	label   string
	server  string
	baseURL string
	client  *http.Client
}

// NewBioRxiv creates the bioRxiv preprint source.
func NewBioRxiv(timeout time.Duration) *Preprint {
	return newPreprint("biorxiv", timeout)
}

// NewMedRxiv creates the medRxiv preprint source.
func NewMedRxiv(timeout time.Duration) *Preprint {
	return newPreprint("medrxiv", timeout)
}

func newPreprint(server string, timeout time.Duration) *Preprint {
	return &Preprint{
		label:   server,
		server:  server,
		baseURL: "https://api.biorxiv.org",
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *Preprint) Label() string { return p.label }

func (p *Preprint) DeepLink(term string) string {
	return fmt.Sprintf("https://www.%s.org/search/%s", p.server, url.PathEscape(term))
}

type preprintResponse struct {
	Messages []struct {
		Status string `json:"status"`
		Total  int    `json:"total"`
	} `json:"messages"`
	Collection []struct {
		DOI     string `json:"doi"`
		Title   string `json:"title"`
		Authors string `json:"authors"`
	} `json:"collection"`
}

func (p *Preprint) Search(ctx context.Context, term string, limit int) ([]models.LiteratureHit, int, error) {
	start := time.Now()

	reqURL := fmt.Sprintf("%s/details/%s/search/%s/0", p.baseURL, p.server, url.PathEscape(term))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, models.TotalUnknown, fmt.Errorf("%s: failed to create request: %w", p.label, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		metrics.RecordProviderRequest(p.label, "failure", time.Since(start))
		return nil, models.TotalUnknown, fmt.Errorf("%s: HTTP request failed: %w", p.label, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordProviderRequest(p.label, "failure", time.Since(start))
		return nil, models.TotalUnknown, fmt.Errorf("%s: unexpected status %d", p.label, resp.StatusCode)
	}

	var decoded preprintResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		metrics.RecordProviderRequest(p.label, "failure", time.Since(start))
		return nil, models.TotalUnknown, fmt.Errorf("%s: decode: %w", p.label, err)
	}

	total := models.TotalUnknown
	if len(decoded.Messages) > 0 {
		total = decoded.Messages[0].Total
	}

	// The API pages by cursor; truncate client-side to the per-source limit.
	docs := decoded.Collection
	if len(docs) > limit {
		docs = docs[:limit]
	}

	hits := make([]models.LiteratureHit, 0, len(docs))
	for _, doc := range docs {
		hits = append(hits, models.LiteratureHit{
			Title:            doc.Title,
			TitleLink:        "https://doi.org/" + doc.DOI,
			AuthorsOrSponsor: doc.Authors,
			SourceLabel:      p.label,
		})
	}

	metrics.RecordProviderRequest(p.label, "success", time.Since(start))
	return hits, total, nil
}
