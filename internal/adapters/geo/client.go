// Package geo fetches the GeoJSON outline of the Brazilian states used by the
// headcount-per-state map.
package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/csg33k/people-indicators/internal/metrics"
)

// DefaultURL is the public GeoJSON of Brazilian states keyed by properties.sigla.
const DefaultURL = "https://raw.githubusercontent.com/codeforamerica/click_that_hood/master/public/data/brazil-states.geojson"

// maxBody caps the upstream document size.
const maxBody = 32 << 20

var ErrInvalidGeoJSON = errors.New("invalid states geojson")

// Client downloads the document once and keeps it in memory. Failed fetches
// are not cached, so the next request tries again.
type Client struct {
	url  string
	http *http.Client

	mu   sync.Mutex
	body []byte
}

// New returns a Client for url. An empty url selects DefaultURL.
func New(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{url: url, http: &http.Client{Timeout: timeout}}
}

// StatesGeoJSON satisfies ports.GeoSource.
func (c *Client) StatesGeoJSON(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.body != nil {
		return c.body, nil
	}
	body, err := c.fetch(ctx)
	metrics.ObserveGeoFetch(err)
	if err != nil {
		return nil, err
	}
	c.body = body
	return body, nil
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/geo+json, application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch states geojson: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch states geojson: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read states geojson: %w", err)
	}
	if err := Validate(body); err != nil {
		return nil, err
	}
	return body, nil
}

// Validate checks that body is a FeatureCollection whose every feature has a
// properties.sigla code to join headcounts on.
func Validate(body []byte) error {
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("%w: not json", ErrInvalidGeoJSON)
	}
	doc := gjson.ParseBytes(body)
	if t := doc.Get("type").String(); t != "FeatureCollection" {
		return fmt.Errorf("%w: type %q", ErrInvalidGeoJSON, t)
	}
	features := doc.Get("features")
	if !features.IsArray() || len(features.Array()) == 0 {
		return fmt.Errorf("%w: no features", ErrInvalidGeoJSON)
	}
	var bad int
	features.ForEach(func(_, f gjson.Result) bool {
		if f.Get("properties.sigla").String() == "" {
			bad++
		}
		return true
	})
	if bad > 0 {
		return fmt.Errorf("%w: %d features without properties.sigla", ErrInvalidGeoJSON, bad)
	}
	return nil
}
