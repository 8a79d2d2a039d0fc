// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

package literature

import (
	"github.com/observatoire-global/observatoire/internal/alerts"
	"github.com/observatoire-global/observatoire/internal/config"
)

// DefaultSources returns the full source enumeration in display order.
// The order is a rendering contract: fan-out bundles are always emitted in
// this sequence regardless of which source answers first.
func DefaultSources(cfg config.LiteratureConfig) []alerts.Source {
	return []alerts.Source{
		NewPubMed(cfg.Timeout, cfg.PubMedAPIKey),
		NewEuropePMC(cfg.Timeout),
		NewClinicalTrials(cfg.Timeout),
		NewBioRxiv(cfg.Timeout),
		NewMedRxiv(cfg.Timeout),
		NewSciELO(cfg.Timeout),
		NewScholar(),
		NewEmbase(),
		NewCochrane(),
		NewWebOfScience(),
	}
}
