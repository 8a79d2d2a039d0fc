// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

package literature

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/observatoire-global/observatoire/internal/config"
	"github.com/observatoire-global/observatoire/internal/models"
)

func TestDefaultSources_EnumerationOrder(t *testing.T) {
	t.Parallel()

	sources := DefaultSources(config.LiteratureConfig{Timeout: time.Second})

	want := []string{
		"pubmed", "europepmc", "clinicaltrials", "biorxiv", "medrxiv",
		"scielo", "scholar", "embase", "cochrane", "wos",
	}
	if len(sources) != len(want) {
		t.Fatalf("DefaultSources() length = %d, want %d", len(sources), len(want))
	}
	for i, label := range want {
		if sources[i].Label() != label {
			t.Errorf("sources[%d].Label() = %q, want %q", i, sources[i].Label(), label)
		}
	}
}

func TestPubMed_Search(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/esearch.fcgi"):
			if r.URL.Query().Get("term") != "semaglutide" {
				t.Errorf("esearch term = %q, want semaglutide", r.URL.Query().Get("term"))
			}
			_, _ = w.Write([]byte(`{"esearchresult":{"count":"42","idlist":["111","222"]}}`))
		case strings.HasPrefix(r.URL.Path, "/esummary.fcgi"):
			_, _ = w.Write([]byte(`{"result":{
				"uids":["111","222"],
				"111":{"uid":"111","title":"First paper","authors":[{"name":"Dupont A"},{"name":"Martin B"}]},
				"222":{"uid":"222","title":"Second paper","authors":[]}
			}}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	p := NewPubMed(5*time.Second, "")
	p.baseURL = srv.URL

	hits, total, err := p.Search(context.Background(), "semaglutide", 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if total != 42 {
		t.Errorf("total = %d, want 42", total)
	}
	if len(hits) != 2 {
		t.Fatalf("hits length = %d, want 2", len(hits))
	}
	if hits[0].Title != "First paper" {
		t.Errorf("hits[0].Title = %q, want First paper", hits[0].Title)
	}
	if hits[0].AuthorsOrSponsor != "Dupont A, Martin B" {
		t.Errorf("hits[0].AuthorsOrSponsor = %q, want joined names", hits[0].AuthorsOrSponsor)
	}
	if hits[0].TitleLink != "https://pubmed.ncbi.nlm.nih.gov/111/" {
		t.Errorf("hits[0].TitleLink = %q", hits[0].TitleLink)
	}
	if hits[0].SourceLabel != "pubmed" {
		t.Errorf("hits[0].SourceLabel = %q, want pubmed", hits[0].SourceLabel)
	}
}

func TestPubMed_Search_NoResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/esearch.fcgi") {
			t.Errorf("esummary should not be called when the id list is empty")
		}
		_, _ = w.Write([]byte(`{"esearchresult":{"count":"0","idlist":[]}}`))
	}))
	defer srv.Close()

	p := NewPubMed(5*time.Second, "")
	p.baseURL = srv.URL

	hits, total, err := p.Search(context.Background(), "xyzzy", 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
	if hits == nil || len(hits) != 0 {
		t.Errorf("hits = %v, want empty non-nil slice", hits)
	}
}

func TestPubMed_Search_UpstreamFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewPubMed(5*time.Second, "")
	p.baseURL = srv.URL

	if _, _, err := p.Search(context.Background(), "semaglutide", 10); err == nil {
		t.Error("Search() = nil error on HTTP 502, want error")
	}
}

func TestEuropePMC_Search(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") != "aspirin" {
			t.Errorf("query = %q, want aspirin", r.URL.Query().Get("query"))
		}
		if r.URL.Query().Get("pageSize") != "5" {
			t.Errorf("pageSize = %q, want 5", r.URL.Query().Get("pageSize"))
		}
		_, _ = w.Write([]byte(`{"hitCount":123,"resultList":{"result":[
			{"id":"33000001","source":"MED","title":"Aspirin revisited","authorString":"Leroy C, Petit D."}
		]}}`))
	}))
	defer srv.Close()

	e := NewEuropePMC(5 * time.Second)
	e.baseURL = srv.URL

	hits, total, err := e.Search(context.Background(), "aspirin", 5)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if total != 123 {
		t.Errorf("total = %d, want 123", total)
	}
	if len(hits) != 1 {
		t.Fatalf("hits length = %d, want 1", len(hits))
	}
	if hits[0].TitleLink != "https://europepmc.org/abstract/MED/33000001" {
		t.Errorf("TitleLink = %q", hits[0].TitleLink)
	}
	if hits[0].AuthorsOrSponsor != "Leroy C, Petit D." {
		t.Errorf("AuthorsOrSponsor = %q", hits[0].AuthorsOrSponsor)
	}
}

func TestClinicalTrials_Search(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query.term") != "semaglutide" {
			t.Errorf("query.term = %q, want semaglutide", r.URL.Query().Get("query.term"))
		}
		_, _ = w.Write([]byte(`{"totalCount":7,"studies":[
			{"protocolSection":{
				"identificationModule":{"nctId":"NCT01234567","briefTitle":"A weight loss trial"},
				"sponsorCollaboratorsModule":{"leadSponsor":{"name":"Novo Nordisk A/S"}}
			}}
		]}`))
	}))
	defer srv.Close()

	c := NewClinicalTrials(5 * time.Second)
	c.baseURL = srv.URL

	hits, total, err := c.Search(context.Background(), "semaglutide", 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if total != 7 {
		t.Errorf("total = %d, want 7", total)
	}
	if len(hits) != 1 {
		t.Fatalf("hits length = %d, want 1", len(hits))
	}
	if hits[0].TitleLink != "https://clinicaltrials.gov/study/NCT01234567" {
		t.Errorf("TitleLink = %q", hits[0].TitleLink)
	}
	if hits[0].AuthorsOrSponsor != "Novo Nordisk A/S" {
		t.Errorf("AuthorsOrSponsor = %q, want lead sponsor", hits[0].AuthorsOrSponsor)
	}
}

func TestPreprint_Search(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/details/medrxiv/search/") {
			t.Errorf("path = %q, want /details/medrxiv/search/...", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"messages":[{"status":"ok","total":4}],"collection":[
			{"doi":"10.1101/2026.01.01.000001","title":"Preprint one","authors":"Garcia E; Silva F"},
			{"doi":"10.1101/2026.01.02.000002","title":"Preprint two","authors":"Nguyen G"},
			{"doi":"10.1101/2026.01.03.000003","title":"Preprint three","authors":"Kim H"}
		]}`))
	}))
	defer srv.Close()

	p := NewMedRxiv(5 * time.Second)
	p.baseURL = srv.URL

	hits, total, err := p.Search(context.Background(), "long covid", 2)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	if len(hits) != 2 {
		t.Fatalf("hits length = %d, want 2 (limit applied)", len(hits))
	}
	if hits[0].TitleLink != "https://doi.org/10.1101/2026.01.01.000001" {
		t.Errorf("TitleLink = %q", hits[0].TitleLink)
	}
	if hits[0].SourceLabel != "medrxiv" {
		t.Errorf("SourceLabel = %q, want medrxiv", hits[0].SourceLabel)
	}
}

func TestSciELO_Search(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total":2,"documents":[
			{"title":"Regional study","authors":["Souza I","Costa J"],"url":"https://www.scielo.br/j/x/a/abc"}
		]}`))
	}))
	defer srv.Close()

	s := NewSciELO(5 * time.Second)
	s.baseURL = srv.URL

	hits, total, err := s.Search(context.Background(), "dengue", 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(hits) != 1 {
		t.Fatalf("hits length = %d, want 1", len(hits))
	}
	if hits[0].AuthorsOrSponsor != "Souza I, Costa J" {
		t.Errorf("AuthorsOrSponsor = %q, want joined list", hits[0].AuthorsOrSponsor)
	}
}

func TestLinkOnly_Sources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source   *LinkOnly
		label    string
		linkPart string
	}{
		{NewScholar(), "scholar", "scholar.google.com"},
		{NewEmbase(), "embase", "embase.com"},
		{NewCochrane(), "cochrane", "cochranelibrary.com"},
		{NewWebOfScience(), "wos", "webofscience.com"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			t.Parallel()

			if tt.source.Label() != tt.label {
				t.Errorf("Label() = %q, want %q", tt.source.Label(), tt.label)
			}

			hits, total, err := tt.source.Search(context.Background(), "anything", 10)
			if err != nil {
				t.Errorf("Search() error = %v, link-only sources never fail", err)
			}
			if hits != nil {
				t.Errorf("Search() hits = %v, want nil", hits)
			}
			if total != models.TotalUnknown {
				t.Errorf("Search() total = %d, want TotalUnknown", total)
			}

			link := tt.source.DeepLink("heart failure")
			if !strings.Contains(link, tt.linkPart) {
				t.Errorf("DeepLink() = %q, want host containing %q", link, tt.linkPart)
			}
			if !strings.Contains(link, "heart+failure") && !strings.Contains(link, "heart%20failure") {
				t.Errorf("DeepLink() = %q, term not encoded into query", link)
			}
		})
	}
}
