// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

package models

// LiteratureHit is the normalized shape of one literature search result.
// Hits are produced fresh on every fan-out and never stored.
type LiteratureHit struct {
	// Title is the article/study title.
	Title string `json:"title"`

	// TitleLink is the canonical URL for the hit.
	TitleLink string `json:"title_link,omitempty"`

	// AuthorsOrSponsor holds the author list, or the sponsor for
	// clinical-trial records.
	AuthorsOrSponsor string `json:"authors_or_sponsor,omitempty"`

	// SourceLabel names the literature source that produced the hit.
	SourceLabel string `json:"source_label"`
}

// TotalUnknown marks a source bundle whose upstream does not report a total
// result count.
const TotalUnknown = -1

// SourceBundle is the per-source outcome of a fan-out query: a truncated hit
// list, the upstream's total count (TotalUnknown when not reported), a deep
// link to the source's own search page, and an optional diagnostic for a
// degraded source. A failed source is represented as an empty bundle with
// Diagnostic set; it never aborts the fan-out.
type SourceBundle struct {
	SourceLabel string          `json:"source_label"`
	Hits        []LiteratureHit `json:"hits"`
	Total       int             `json:"total"`
	DeepLink    string          `json:"deep_link,omitempty"`
	Diagnostic  string          `json:"diagnostic,omitempty"`
}
