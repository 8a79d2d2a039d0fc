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
	"time"

	"github.com/goccy/go-json"

	"github.com/observatoire-global/observatoire/internal/metrics"
	"github.com/observatoire-global/observatoire/internal/models"
)

// ClinicalTrials queries the ClinicalTrials.gov v2 API. Trial records carry
// the lead sponsor where article sources carry an author list.
type ClinicalTrials struct {
	baseURL string
	client  *http.Client
}

// NewClinicalTrials creates the ClinicalTrials.gov source.
func NewClinicalTrials(timeout time.Duration) *ClinicalTrials {
	return &ClinicalTrials{
		baseURL: "https://clinicaltrials.gov/api/v2",
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *ClinicalTrials) Label() string { return "clinicaltrials" }

func (c *ClinicalTrials) DeepLink(term string) string {
	return "https://clinicaltrials.gov/search?term=" + url.QueryEscape(term)
}

type ctgovResponse struct {
	TotalCount int `json:"totalCount"`
	Studies    []struct {
		ProtocolSection struct {
			IdentificationModule struct {
				NCTID      string `json:"nctId"`
				BriefTitle string `json:"briefTitle"`
			} `json:"identificationModule"`
			SponsorCollaboratorsModule struct {
				LeadSponsor struct {
					Name string `json:"name"`
				} `json:"leadSponsor"`
			} `json:"sponsorCollaboratorsModule"`
		} `json:"protocolSection"`
	} `json:"studies"`
}

func (c *ClinicalTrials) Search(ctx context.Context, term string, limit int) ([]models.LiteratureHit, int, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("query.term", term)
	params.Set("pageSize", strconv.Itoa(limit))
	params.Set("countTotal", "true")

	reqURL := c.baseURL + "/studies?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, models.TotalUnknown, fmt.Errorf("clinicaltrials: failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordProviderRequest("clinicaltrials", "failure", time.Since(start))
		return nil, models.TotalUnknown, fmt.Errorf("clinicaltrials: HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordProviderRequest("clinicaltrials", "failure", time.Since(start))
		return nil, models.TotalUnknown, fmt.Errorf("clinicaltrials: unexpected status %d", resp.StatusCode)
	}

	var decoded ctgovResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		metrics.RecordProviderRequest("clinicaltrials", "failure", time.Since(start))
		return nil, models.TotalUnknown, fmt.Errorf("clinicaltrials: decode: %w", err)
	}

	hits := make([]models.LiteratureHit, 0, len(decoded.Studies))
	for _, study := range decoded.Studies {
		ident := study.ProtocolSection.IdentificationModule
		hits = append(hits, models.LiteratureHit{
			Title:            ident.BriefTitle,
			TitleLink:        "https://clinicaltrials.gov/study/" + ident.NCTID,
			AuthorsOrSponsor: study.ProtocolSection.SponsorCollaboratorsModule.LeadSponsor.Name,
			SourceLabel:      c.Label(),
		})
	}

	metrics.RecordProviderRequest("clinicaltrials", "success", time.Since(start))
	return hits, decoded.TotalCount, nil
}
