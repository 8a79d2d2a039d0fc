// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

package alerts

import (
	"context"
	"sync"
	"time"

	"github.com/observatoire-global/observatoire/internal/logging"
	"github.com/observatoire-global/observatoire/internal/metrics"
	"github.com/observatoire-global/observatoire/internal/models"
)

// Source is one literature collaborator queried during fan-out.
//
// Implementations live in internal/providers/literature. Link-only sources
// (no public query API) return (nil, models.TotalUnknown, nil) from Search
// and rely on DeepLink; they are never treated as failed.
type Source interface {
	// Label is the opaque display key for the source. Labels are unique
	// within one fan-out enumeration.
	Label() string

	// Search runs the term against the source, truncated to limit hits.
	// The int result is the upstream total (models.TotalUnknown when the
	// upstream does not report one).
	Search(ctx context.Context, term string, limit int) ([]models.LiteratureHit, int, error)

	// DeepLink builds a URL to the source's own hosted search page for
	// the term.
	DeepLink(term string) string
}

// Fanout aggregates literature search results across a fixed, ordered
// enumeration of sources.
//
// Failure isolation is the core contract: a failing or empty-responding
// source contributes an empty bundle for that source and never aborts the
// other queries. One dead upstream must not blank the entire alert view.
// Sources are queried concurrently, but the output order is always the
// enumeration order, never response-arrival order, so a render is
// deterministic regardless of network timing.
type Fanout struct {
	sources []Source
}

// NewFanout creates a fan-out over the given sources. The slice order is the
// display contract and is preserved in every result.
func NewFanout(sources []Source) *Fanout {
	return &Fanout{sources: sources}
}

// Sources returns the enumeration labels in order.
func (f *Fanout) Sources() []string {
	labels := make([]string, len(f.sources))
	for i, s := range f.sources {
		labels[i] = s.Label()
	}
	return labels
}

// Run queries every source for the term, truncating each result set to
// perSourceLimit, and returns one bundle per source in enumeration order.
//
// Run never returns an error: provider failures are degraded to an empty
// bundle carrying a diagnostic message. Every bundle carries the source's
// deep link so the UI can offer a "see more" jump even when the query
// itself contributed nothing.
func (f *Fanout) Run(ctx context.Context, term string, perSourceLimit int) []models.SourceBundle {
	start := time.Now()
	bundles := make([]models.SourceBundle, len(f.sources))

	var wg sync.WaitGroup
	for i, src := range f.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			bundles[i] = f.query(ctx, src, term, perSourceLimit)
		}(i, src)
	}
	wg.Wait()

	metrics.RecordFanout(time.Since(start))
	logging.Ctx(ctx).Debug().
		Str("term", term).
		Int("sources", len(bundles)).
		Dur("duration", time.Since(start)).
		Msg("literature fan-out complete")

	return bundles
}

// query runs a single source and degrades its failure to an empty bundle.
func (f *Fanout) query(ctx context.Context, src Source, term string, limit int) models.SourceBundle {
	bundle := models.SourceBundle{
		SourceLabel: src.Label(),
		Hits:        []models.LiteratureHit{},
		Total:       models.TotalUnknown,
		DeepLink:    src.DeepLink(term),
	}

	hits, total, err := src.Search(ctx, term, limit)
	if err != nil {
		metrics.RecordLiteratureFailure(src.Label())
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("source", src.Label()).
			Str("term", term).
			Msg("literature source degraded to empty result")
		bundle.Diagnostic = err.Error()
		return bundle
	}

	if hits != nil {
		bundle.Hits = hits
	}
	bundle.Total = total
	return bundle
}
