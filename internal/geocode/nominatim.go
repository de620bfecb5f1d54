// Package geocode resolves claim locations against a Nominatim-compatible
// search endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vanadhikar/claimsd/internal/entity"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Reason tags why a lookup came back unresolved.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonIncompleteInput Reason = "incomplete_input"
	ReasonLookupFailed    Reason = "lookup_failed"
	ReasonNoResults       Reason = "no_results"
)

// Result carries the resolved coordinates or the reason there are none.
// Resolve never returns an error: geocoding is best-effort and a failed
// lookup must not abort the pipeline.
type Result struct {
	Location entity.Location
	Resolved bool
	Reason   Reason
}

type Config struct {
	BaseURL   string
	UserAgent string // Nominatim requires an identifying User-Agent
	Timeout   time.Duration
}

type Resolver struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewResolver(cfg Config, logger *slog.Logger) *Resolver {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "claimsd/1.0"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, logger: logger}
}

// searchHit is one Nominatim candidate. Coordinates come back string-typed.
type searchHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve issues one lookup for "{village}, {tehsil}, {district}, India".
// If any input is blank it short-circuits without a network call. The first
// hit wins; there is no disambiguation or confidence threshold.
func (r *Resolver) Resolve(ctx context.Context, village, tehsil, district string) Result {
	village = strings.TrimSpace(village)
	tehsil = strings.TrimSpace(tehsil)
	district = strings.TrimSpace(district)
	if village == "" || tehsil == "" || district == "" {
		return Result{Reason: ReasonIncompleteInput}
	}

	query := fmt.Sprintf("%s, %s, %s, India", village, tehsil, district)
	u := strings.TrimRight(r.cfg.BaseURL, "/") + "/search?" + url.Values{
		"q":      {query},
		"format": {"json"},
	}.Encode()

	start := time.Now()
	hits, err := r.search(ctx, u)
	if err != nil {
		r.logger.Warn("geocode.lookup_failed", "query", query, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Result{Reason: ReasonLookupFailed}
	}
	if len(hits) == 0 {
		r.logger.Info("geocode.no_results", "query", query,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Result{Reason: ReasonNoResults}
	}

	lat, latErr := strconv.ParseFloat(hits[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(hits[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		r.logger.Warn("geocode.bad_coordinates", "query", query, "lat", hits[0].Lat, "lon", hits[0].Lon)
		return Result{Reason: ReasonLookupFailed}
	}

	r.logger.Info("geocode.ok", "query", query, "lat", lat, "lon", lon,
		"elapsed_ms", time.Since(start).Milliseconds())
	return Result{
		Location: entity.Location{Lat: &lat, Lon: &lon},
		Resolved: true,
	}
}

func (r *Resolver) search(ctx context.Context, u string) ([]searchHit, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			r.logger.Warn("geocode response body close error", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocode status %d", resp.StatusCode)
	}

	var hits []searchHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	return hits, nil
}
