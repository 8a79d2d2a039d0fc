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
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/observatoire-global/observatoire/internal/metrics"
	"github.com/observatoire-global/observatoire/internal/models"
)

// SciELO queries the SciELO regional literature index.
type SciELO struct {
	baseURL string
	client  *http.Client
}

// NewSciELO creates the SciELO source.
func NewSciELO(timeout time.Duration) *SciELO {
	return &SciELO{
		baseURL: "https://search.scielo.org/api/v1",
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *SciELO) Label() string { return "scielo" }

func (s *SciELO) DeepLink(term string) string {
	return "https://search.scielo.org/?q=" + url.QueryEscape(term)
}

type scieloResponse struct {
	Total     int `json:"total"`
	Documents []struct {
		Title   string   `json:"title"`
		Authors []string `json:"authors"`
		URL     string   `json:"url"`
	} `json:"documents"`
}

func (s *SciELO) Search(ctx context.Context, term string, limit int) ([]models.LiteratureHit, int, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("q", term)
	params.Set("count", strconv.Itoa(limit))
	params.Set("format", "json")

	reqURL := s.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, models.TotalUnknown, fmt.Errorf("scielo: failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.RecordProviderRequest("scielo", "failure", time.Since(start))
		return nil, models.TotalUnknown, fmt.Errorf("scielo: HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordProviderRequest("scielo", "failure", time.Since(start))
		return nil, models.TotalUnknown, fmt.Errorf("scielo: unexpected status %d", resp.StatusCode)
	}

	var decoded scieloResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		metrics.RecordProviderRequest("scielo", "failure", time.Since(start))
		return nil, models.TotalUnknown, fmt.Errorf("scielo: decode: %w", err)
	}

	hits := make([]models.LiteratureHit, 0, len(decoded.Documents))
	for _, doc := range decoded.Documents {
		hits = append(hits, models.LiteratureHit{
			Title:            doc.Title,
			TitleLink:        doc.URL,
			AuthorsOrSponsor: strings.Join(doc.Authors, ", "),
			SourceLabel:      s.Label(),
		})
	}

	metrics.RecordProviderRequest("scielo", "success", time.Since(start))
	return hits, decoded.Total, nil
}
