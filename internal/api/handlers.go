// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/observatoire-global/observatoire/internal/alerts"
	"github.com/observatoire-global/observatoire/internal/cache"
	"github.com/observatoire-global/observatoire/internal/config"
	"github.com/observatoire-global/observatoire/internal/indicators"
	"github.com/observatoire-global/observatoire/internal/logging"
	"github.com/observatoire-global/observatoire/internal/models"
	"github.com/observatoire-global/observatoire/internal/providers/quotes"
	"github.com/observatoire-global/observatoire/internal/session"
	"github.com/observatoire-global/observatoire/internal/validation"
	"github.com/observatoire-global/observatoire/internal/watchlist"
)

// SessionHeader carries the caller's session ID. When absent or unknown a new
// session is created and its ID is echoed back in the same header.
const SessionHeader = "X-Session-ID"

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	cfg            *config.Config
	sessions       *session.Manager
	fetcher        quotes.Fetcher
	quoteCache     *cache.Cache
	indicatorCache *cache.Cache
	fanout         *alerts.Fanout
	statcan        *indicators.Client
}

// NewHandler creates the handler set.
func NewHandler(
	cfg *config.Config,
	sessions *session.Manager,
	fetcher quotes.Fetcher,
	quoteCache *cache.Cache,
	indicatorCache *cache.Cache,
	fanout *alerts.Fanout,
	statcan *indicators.Client,
) *Handler {
	return &Handler{
		cfg:            cfg,
		sessions:       sessions,
		fetcher:        fetcher,
		quoteCache:     quoteCache,
		indicatorCache: indicatorCache,
		fanout:         fanout,
		statcan:        statcan,
	}
}

// resolveSession maps the session header to a live session, creating one when
// the header is absent or names an expired session. The resolved ID is always
// echoed back so the client can adopt it.
func (h *Handler) resolveSession(w http.ResponseWriter, r *http.Request) *session.Session {
	s, created := h.sessions.GetOrCreate(r.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, s.ID)

	if created {
		logging.Ctx(r.Context()).Debug().
			Str("session_id", s.ID).
			Msg("new session created")
	}
	return s
}

// decodeJSON decodes the request body into dst, reporting a 400 on malformed
// input. The bool result tells the caller whether to continue.
func decodeJSON(rw *ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		rw.BadRequest("Invalid JSON body: " + err.Error())
		return false
	}
	return true
}

// --- Watchlist ---

type addWatchlistRequest struct {
	Category   string `json:"category" validate:"required,oneof=index equity crypto bond commodity"`
	Identifier string `json:"identifier" validate:"required"`
}

// AddWatchlistEntry fetches the current quote for the requested asset,
// normalizes it and upserts it onto the session's board.
// POST /api/v1/watchlist
func (h *Handler) AddWatchlistEntry(w http.ResponseWriter, r *http.Request) {
	sess := h.resolveSession(w, r)
	rw := NewResponseWriter(w, r).WithSession(sess.ID)

	var req addWatchlistRequest
	if !decodeJSON(rw, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	category := models.Category(req.Category)
	raw, err := h.fetchQuoteCached(r, category, req.Identifier)
	if err != nil {
		rw.ExternalServiceError("market-data", err)
		return
	}

	entry, err := watchlist.Normalize(category, raw)
	if err != nil {
		if errors.Is(err, watchlist.ErrMissingIdentifier) {
			rw.Error(http.StatusUnprocessableEntity, ErrCodeBadRequest,
				"Provider record has no resolvable identifier")
			return
		}
		rw.BadRequest(err.Error())
		return
	}

	sess.Watchlist.Upsert(entry)
	rw.Created(entry)
}

// ListWatchlist returns the session's board in first-insert order.
// GET /api/v1/watchlist
func (h *Handler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	sess := h.resolveSession(w, r)
	NewResponseWriter(w, r).WithSession(sess.ID).Success(sess.Watchlist.List())
}

// RemoveWatchlistEntry removes one entry by its composite key. Removing an
// absent key still returns 204.
// DELETE /api/v1/watchlist/{category}/{id}
func (h *Handler) RemoveWatchlistEntry(w http.ResponseWriter, r *http.Request) {
	sess := h.resolveSession(w, r)
	rw := NewResponseWriter(w, r).WithSession(sess.ID)

	category, err := models.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	sess.Watchlist.Remove(category, chi.URLParam(r, "id"))
	rw.NoContent()
}

// --- Alerts ---

type createAlertRequest struct {
	Term           string `json:"term"`
	Mode           string `json:"mode"`
	ContactAddress string `json:"contact_address"`
}

// CreateAlert registers a new study alert for the session.
// POST /api/v1/alerts
func (h *Handler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	sess := h.resolveSession(w, r)
	rw := NewResponseWriter(w, r).WithSession(sess.ID)

	var req createAlertRequest
	if !decodeJSON(rw, r, &req) {
		return
	}

	alert, err := sess.Alerts.Create(req.Term, models.DeliveryMode(req.Mode), req.ContactAddress)
	if err != nil {
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			apiErr := verr.ToAPIError()
			rw.ValidationError(apiErr.Message, apiErr.Details)
			return
		}
		rw.BadRequest(err.Error())
		return
	}

	rw.Created(alert)
}

// ListAlerts returns the session's alerts in insertion order.
// GET /api/v1/alerts
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	sess := h.resolveSession(w, r)
	NewResponseWriter(w, r).WithSession(sess.ID).Success(sess.Alerts.List())
}

// AlertResults runs the literature fan-out for a term and returns one bundle
// per source in enumeration order. Failed sources degrade to empty bundles;
// this endpoint never 502s on a provider outage.
// GET /api/v1/alerts/results?term=&limit=
func (h *Handler) AlertResults(w http.ResponseWriter, r *http.Request) {
	sess := h.resolveSession(w, r)
	rw := NewResponseWriter(w, r).WithSession(sess.ID)

	term := r.URL.Query().Get("term")
	if term == "" {
		rw.BadRequest("Query parameter 'term' is required")
		return
	}

	limit := h.cfg.Literature.PerSourceLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > h.cfg.Literature.MaxPerSource {
			rw.BadRequest(fmt.Sprintf("Query parameter 'limit' must be between 1 and %d",
				h.cfg.Literature.MaxPerSource))
			return
		}
		limit = n
	}

	rw.Success(h.fanout.Run(r.Context(), term, limit))
}

// --- Quotes ---

// GetQuote returns the raw provider record for one asset, served from the
// quote cache when fresh.
// GET /api/v1/quotes/{category}/{id}
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	category, err := models.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	raw, err := h.fetchQuoteCached(r, category, chi.URLParam(r, "id"))
	if err != nil {
		rw.ExternalServiceError("market-data", err)
		return
	}

	rw.Success(raw)
}

func (h *Handler) fetchQuoteCached(r *http.Request, category models.Category, id string) (models.RawQuote, error) {
	key := cache.GenerateKey("quote", []string{string(category), id})
	if cached, ok := h.quoteCache.Get(key); ok {
		if raw, ok := cached.(models.RawQuote); ok {
			return raw, nil
		}
	}

	raw, err := h.fetcher.FetchQuote(r.Context(), category, id)
	if err != nil {
		return nil, err
	}

	h.quoteCache.Set(key, raw)
	return raw, nil
}

// --- Indicators ---

// ListCubes returns the StatCan data-table catalogue.
// GET /api/v1/indicators/cubes
func (h *Handler) ListCubes(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	key := cache.GenerateKey("statcan.cubes", nil)
	if cached, ok := h.indicatorCache.Get(key); ok {
		rw.Success(cached)
		return
	}

	cubes, err := h.statcan.ListCubes(r.Context())
	if err != nil {
		rw.ExternalServiceError("statcan", err)
		return
	}

	h.indicatorCache.Set(key, cubes)
	rw.Success(cubes)
}

// GetCubeMetadata returns the metadata for one data table.
// GET /api/v1/indicators/cubes/{productID}
func (h *Handler) GetCubeMetadata(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		rw.BadRequest("productID must be an integer")
		return
	}

	key := cache.GenerateKey("statcan.cube", productID)
	if cached, ok := h.indicatorCache.Get(key); ok {
		rw.Success(cached)
		return
	}

	meta, err := h.statcan.CubeMetadata(r.Context(), productID)
	if err != nil {
		rw.ExternalServiceError("statcan", err)
		return
	}

	h.indicatorCache.Set(key, meta)
	rw.Success(meta)
}

// GetVectorData returns the observations of one time-series vector.
// GET /api/v1/indicators/vectors/{vectorID}
func (h *Handler) GetVectorData(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	vectorID, err := strconv.ParseInt(chi.URLParam(r, "vectorID"), 10, 64)
	if err != nil {
		rw.BadRequest("vectorID must be an integer")
		return
	}

	key := cache.GenerateKey("statcan.vector", vectorID)
	if cached, ok := h.indicatorCache.Get(key); ok {
		rw.Success(cached)
		return
	}

	points, err := h.statcan.VectorData(r.Context(), vectorID)
	if err != nil {
		rw.ExternalServiceError("statcan", err)
		return
	}

	h.indicatorCache.Set(key, points)
	rw.Success(points)
}

// --- Session ---

// EndSession discards the caller's session and everything it owns.
// Unknown or absent session IDs are a silent no-op.
// DELETE /api/v1/session
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if id := r.Header.Get(SessionHeader); id != "" {
		h.sessions.Destroy(id)
		logging.Ctx(r.Context()).Debug().Str("session_id", id).Msg("session ended")
	}
	NewResponseWriter(w, r).NoContent()
}

// --- Health ---

// HealthLive reports process liveness.
// GET /api/v1/health/live
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "ok"})
}

// HealthReady reports readiness to serve traffic.
// GET /api/v1/health/ready
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"status":   "ready",
		"sessions": h.sessions.Len(),
		"sources":  h.fanout.Sources(),
	})
}
