package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hiscore-tracker/internal/adapters/metrics"
)

const DefaultBaseURL = "https://secure.runescape.com/m=hiscore_oldschool"

var ErrPlayerNotFound = errors.New("player not found on hiscores")

type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a client that spaces requests at least interval apart.
// A zero interval disables rate limiting.
func NewClient(baseURL string, interval time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: NewMetricsRoundTripper(http.DefaultTransport),
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		limiter: newLimiter(interval),
	}
}

// NewTestClient creates a client with custom base URL for testing.
func NewTestClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		limiter: newLimiter(0),
	}
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// GetIndexLite returns the raw CSV stats for a player.
func (c *Client) GetIndexLite(ctx context.Context, name string) (string, error) {
	u := fmt.Sprintf("%s/index_lite.ws?player=%s", c.baseURL, escapeName(name))

	body, err := c.get(ctx, u)
	if err != nil {
		return "", fmt.Errorf("fetch index_lite: %w", err)
	}
	return string(body), nil
}

// GetPersonalPage returns the HTML hiscores page for a player.
func (c *Client) GetPersonalPage(ctx context.Context, name string) ([]byte, error) {
	u := fmt.Sprintf("%s/hiscorepersonal?user1=%s", c.baseURL, escapeName(name))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch personal page: %w", err)
	}
	return body, nil
}

// escapeName encodes every reserved character, spaces included, as %XX.
func escapeName(name string) string {
	return strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrPlayerNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// -- Middleware --

type MetricsRoundTripper struct {
	Proxied http.RoundTripper
}

func NewMetricsRoundTripper(proxied http.RoundTripper) *MetricsRoundTripper {
	if proxied == nil {
		proxied = http.DefaultTransport
	}
	return &MetricsRoundTripper{Proxied: proxied}
}

func (mrt *MetricsRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := mrt.Proxied.RoundTrip(req)
	duration := time.Since(start).Seconds()

	status := "error"
	if err == nil {
		status = fmt.Sprintf("%d", resp.StatusCode)
	}

	endpoint := "unknown"
	switch {
	case strings.HasSuffix(req.URL.Path, "/index_lite.ws"):
		endpoint = "index_lite"
	case strings.HasSuffix(req.URL.Path, "/hiscorepersonal"):
		endpoint = "personal"
	}

	metrics.HiscoresRequestDuration.WithLabelValues(endpoint, status).Observe(duration)
	metrics.HiscoresRequests.WithLabelValues(endpoint, status).Inc()

	return resp, err
}
