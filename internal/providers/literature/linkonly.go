// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

package literature

import (
	"context"
	"net/url"

	"github.com/observatoire-global/observatoire/internal/models"
)

// LinkOnly is a source with no public query API. It contributes nothing to
// the hit list but always supplies a deep link into its own hosted search,
// and is never treated as failed.
type LinkOnly struct {
	label     string
	linkBase  string
	linkQuery string
}

// NewScholar creates the Google Scholar link-only source.
func NewScholar() *LinkOnly {
	return &LinkOnly{label: "scholar", linkBase: "https://scholar.google.com/scholar", linkQuery: "q"}
}

// NewEmbase creates the Embase link-only source. Access requires an
// institutional subscription, so only the landing search is linked.
func NewEmbase() *LinkOnly {
	return &LinkOnly{label: "embase", linkBase: "https://www.embase.com/search/results", linkQuery: "query"}
}

// NewCochrane creates the Cochrane Library link-only source.
func NewCochrane() *LinkOnly {
	return &LinkOnly{label: "cochrane", linkBase: "https://www.cochranelibrary.com/search", linkQuery: "searchText"}
}

// NewWebOfScience creates the Web of Science link-only source.
func NewWebOfScience() *LinkOnly {
	return &LinkOnly{label: "wos", linkBase: "https://www.webofscience.com/wos/woscc/basic-search", linkQuery: "query"}
}

func (l *LinkOnly) Label() string { return l.label }

func (l *LinkOnly) Search(ctx context.Context, term string, limit int) ([]models.LiteratureHit, int, error) {
	return nil, models.TotalUnknown, nil
}

func (l *LinkOnly) DeepLink(term string) string {
	return l.linkBase + "?" + l.linkQuery + "=" + url.QueryEscape(term)
}
