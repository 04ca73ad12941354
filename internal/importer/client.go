// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/nutrimaster/internal/config"
	"github.com/tomtom215/nutrimaster/internal/metrics"
)

var (
	// ErrFoodNotFound is returned when the remote database has no such food.
	ErrFoodNotFound = errors.New("food not found in remote database")

	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("food composition database unavailable")

	// ErrUpstream is returned for transport failures, unexpected status codes
	// and undecodable responses.
	ErrUpstream = errors.New("food composition database request failed")
)

// maxErrorBodySize limits how much of an error response is read.
const maxErrorBodySize = 64 * 1024

// maxProfileSize limits the size of a decoded food profile.
const maxProfileSize = 1 << 20

// FoodProfile is one food returned by the remote database. Nutrients maps
// nutrient codes to amounts per 100 g.
type FoodProfile struct {
	FoodID    string             `json:"food_id"`
	Label     string             `json:"label"`
	Category  string             `json:"category,omitempty"`
	Nutrients map[string]float64 `json:"nutrients"`
}

// FoodSource fetches food profiles. *Client implements it.
type FoodSource interface {
	FetchFood(ctx context.Context, foodID string) (*FoodProfile, error)
}

// Client talks to an Edamam-style food database at GET {base}/foods/{id}.
// Calls are rate limited and guarded by a circuit breaker.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*FoodProfile]
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBreakerSettings replaces the default circuit breaker settings.
func WithBreakerSettings(s BreakerSettings) ClientOption {
	return func(c *Client) { c.breaker = newBreaker(s) }
}

// NewClient creates a client for the configured food database.
func NewClient(cfg *config.ImportConfig, opts ...ClientOption) (*Client, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, errors.New("import base URL is not configured")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid import base URL %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = newBreaker(DefaultBreakerSettings())
	}
	return c, nil
}

// FetchFood retrieves the nutrient profile of one food.
func (c *Client) FetchFood(ctx context.Context, foodID string) (*FoodProfile, error) {
	foodID = strings.TrimSpace(foodID)
	if foodID == "" {
		return nil, errors.New("food id is required")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	profile, err := c.breaker.Execute(func() (*FoodProfile, error) {
		return c.fetch(ctx, foodID)
	})
	recordBreakerResult(err)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return profile, err
}

func (c *Client) fetch(ctx context.Context, foodID string) (*FoodProfile, error) {
	start := time.Now()
	defer func() { metrics.ImportRequestDuration.Observe(time.Since(start).Seconds()) }()

	endpoint := c.baseURL + "/foods/" + url.PathEscape(foodID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrFoodNotFound, foodID)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, readBodyForError(resp.Body))
	}

	var profile FoodProfile
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxProfileSize)).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: decode food profile: %v", ErrUpstream, err)
	}
	if profile.FoodID == "" {
		profile.FoodID = foodID
	}
	return &profile, nil
}

// readBodyForError reads at most maxErrorBodySize bytes of an error response.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	return strings.TrimSpace(string(body))
}
