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

// EuropePMC queries the Europe PMC REST search API.
type EuropePMC struct {
	baseURL string
	client  *http.Client
}

// NewEuropePMC creates the Europe PMC source.
func NewEuropePMC(timeout time.Duration) *EuropePMC {
	return &EuropePMC{
		baseURL: "https://www.ebi.ac.uk/europepmc/webservices/rest",
		client:  &http.Client{Timeout: timeout},
	}
}

func (e *EuropePMC) Label() string { return "europepmc" }

func (e *EuropePMC) DeepLink(term string) string {
	return "https://europepmc.org/search?query=" + url.QueryEscape(term)
}

type europePMCResponse struct {
	HitCount   int `json:"hitCount"`
	ResultList struct {
		Result []struct {
			ID           string `json:"id"`
			Source       string `json:"source"`
			Title        string `json:"title"`
			AuthorString string `json:"authorString"`
		} `json:"result"`
	} `json:"resultList"`
}

func (e *EuropePMC) Search(ctx context.Context, term string, limit int) ([]models.LiteratureHit, int, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("query", term)
	params.Set("format", "json")
	params.Set("pageSize", fmt.Sprintf("%d", limit))

	reqURL := e.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, models.TotalUnknown, fmt.Errorf("europepmc: failed to create request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		metrics.RecordProviderRequest("europepmc", "failure", time.Since(start))
		return nil, models.TotalUnknown, fmt.Errorf("europepmc: HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordProviderRequest("europepmc", "failure", time.Since(start))
		return nil, models.TotalUnknown, fmt.Errorf("europepmc: unexpected status %d", resp.StatusCode)
	}

	var decoded europePMCResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		metrics.RecordProviderRequest("europepmc", "failure", time.Since(start))
		return nil, models.TotalUnknown, fmt.Errorf("europepmc: decode: %w", err)
	}

	hits := make([]models.LiteratureHit, 0, len(decoded.ResultList.Result))
	for _, r := range decoded.ResultList.Result {
		hits = append(hits, models.LiteratureHit{
			Title:            r.Title,
			TitleLink:        fmt.Sprintf("https://europepmc.org/abstract/%s/%s", r.Source, r.ID),
			AuthorsOrSponsor: r.AuthorString,
			SourceLabel:      e.Label(),
		})
	}

	metrics.RecordProviderRequest("europepmc", "success", time.Since(start))
	return hits, decoded.HitCount, nil
}
