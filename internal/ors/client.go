package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"

	"golang.org/x/time/rate"

	"transit.sullia.org/internal/appconf"
	"transit.sullia.org/internal/logging"
	"transit.sullia.org/internal/metrics"
	"transit.sullia.org/internal/models"
)

const (
	defaultBaseURL = "https://api.openrouteservice.org"
	defaultProfile = "driving-car"

	// defaultRequestsPerSecond keeps us inside the free-tier quota
	defaultRequestsPerSecond = 5.0
)

// ErrDisabled is returned when no API key is configured
var ErrDisabled = errors.New("ors: no API key configured")

// Client calls the OpenRouteService directions API. Calls are paced with a
// rate limiter so batch refreshes stay inside the service quota.
type Client struct {
	baseURL    string
	apiKey     string
	profile    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates an OpenRouteService client from configuration. The
// returned client is disabled (Enabled() == false) when no API key is set.
func NewClient(cfg appconf.ORSConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	profile := cfg.Profile
	if profile == "" {
		profile = defaultProfile
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		profile:    profile,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Enabled reports whether the client has an API key and can make calls
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// DirectionsResult is the summary of one directions call
type DirectionsResult struct {
	GeoJSON     json.RawMessage
	DistanceKm  float64
	DurationMin float64
}

type directionsRequest struct {
	Coordinates  [][2]float64 `json:"coordinates"`
	Instructions bool         `json:"instructions"`
}

type directionsResponse struct {
	Features []struct {
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// Directions computes a road route through the given ordered points and
// returns its geometry and summary metrics.
func (c *Client) Directions(ctx context.Context, points []models.CoordinatePoint) (*DirectionsResult, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if len(points) < 2 {
		return nil, errors.New("ors: directions require at least two points")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// ORS expects [lon, lat]
	coords := make([][2]float64, len(points))
	for i, p := range points {
		coords[i] = [2]float64{p.Lon, p.Lat}
	}

	body, err := json.Marshal(directionsRequest{Coordinates: coords, Instructions: false})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v2/directions/%s/geojson", c.baseURL, c.profile)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ORSRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "ors_client")),
		"http_response_body")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ORSRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		metrics.ORSRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("ors: directions request failed with status %d", resp.StatusCode)
	}

	var parsed directionsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		metrics.ORSRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("ors: decoding directions response: %w", err)
	}
	if len(parsed.Features) == 0 {
		metrics.ORSRequestsTotal.WithLabelValues("error").Inc()
		return nil, errors.New("ors: directions response has no features")
	}

	metrics.ORSRequestsTotal.WithLabelValues("ok").Inc()

	summary := parsed.Features[0].Properties.Summary
	return &DirectionsResult{
		GeoJSON:     raw,
		DistanceKm:  roundTo(summary.Distance/1000.0, 3),
		DurationMin: roundTo(summary.Duration/60.0, 1),
	}, nil
}

// PairMetrics returns the road distance (km) and travel time (min) between
// two points.
func (c *Client) PairMetrics(ctx context.Context, from, to models.CoordinatePoint) (float64, float64, error) {
	result, err := c.Directions(ctx, []models.CoordinatePoint{from, to})
	if err != nil {
		return 0, 0, err
	}
	return result.DistanceKm, result.DurationMin, nil
}

func roundTo(v float64, digits int) float64 {
	factor := math.Pow(10, float64(digits))
	return math.Round(v*factor) / factor
}
