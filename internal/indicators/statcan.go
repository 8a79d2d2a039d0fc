// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

// Package indicators provides the Statistics Canada Web Data Service client
// backing the public-sector indicator views.
package indicators

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/observatoire-global/observatoire/internal/metrics"
)

// Cube is one StatCan data table.
type Cube struct {
	ProductID   int64  `json:"productId"`
	CubeTitleEn string `json:"cubeTitleEn"`
	CubeTitleFr string `json:"cubeTitleFr"`
}

// CubeMetadata describes one cube including its time-series vector IDs.
type CubeMetadata struct {
	ProductID   int64   `json:"productId"`
	CubeTitleEn string  `json:"cubeTitleEn"`
	CubeTitleFr string  `json:"cubeTitleFr"`
	VectorIDs   []int64 `json:"vectorIds"`
}

// VectorPoint is one observation of a StatCan time series.
type VectorPoint struct {
	RefDate string  `json:"REF_DATE"`
	Value   float64 `json:"VALUE"`
	Geo     string  `json:"GEO"`
}

// Client talks to the StatCan Web Data Service REST API. All responses are
// wrapped in an "object" envelope.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a StatCan WDS client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// ListCubes returns every available data table.
func (c *Client) ListCubes(ctx context.Context) ([]Cube, error) {
	var cubes []Cube
	if err := c.getObject(ctx, c.baseURL+"/getAllCubesList", &cubes); err != nil {
		return nil, fmt.Errorf("statcan: list cubes: %w", err)
	}
	return cubes, nil
}

// CubeMetadata returns the metadata for one table, including its vector IDs.
func (c *Client) CubeMetadata(ctx context.Context, productID int64) (*CubeMetadata, error) {
	var meta CubeMetadata
	url := fmt.Sprintf("%s/getCubeMetadata/%d", c.baseURL, productID)
	if err := c.getObject(ctx, url, &meta); err != nil {
		return nil, fmt.Errorf("statcan: cube metadata for %d: %w", productID, err)
	}
	return &meta, nil
}

// VectorData returns the observations of one time-series vector.
func (c *Client) VectorData(ctx context.Context, vectorID int64) ([]VectorPoint, error) {
	var points []VectorPoint
	url := fmt.Sprintf("%s/getDataFromVector/%d", c.baseURL, vectorID)
	if err := c.getObject(ctx, url, &points); err != nil {
		return nil, fmt.Errorf("statcan: vector data for %d: %w", vectorID, err)
	}
	return points, nil
}

// getObject performs a GET and unwraps the WDS "object" envelope.
func (c *Client) getObject(ctx context.Context, reqURL string, out interface{}) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordProviderRequest("statcan", "failure", time.Since(start))
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordProviderRequest("statcan", "failure", time.Since(start))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var envelope struct {
		Object json.RawMessage `json:"object"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		metrics.RecordProviderRequest("statcan", "failure", time.Since(start))
		return fmt.Errorf("decode envelope: %w", err)
	}

	if err := json.Unmarshal(envelope.Object, out); err != nil {
		metrics.RecordProviderRequest("statcan", "failure", time.Since(start))
		return fmt.Errorf("decode object: %w", err)
	}

	metrics.RecordProviderRequest("statcan", "success", time.Since(start))
	return nil
}
