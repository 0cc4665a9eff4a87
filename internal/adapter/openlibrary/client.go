// Package openlibrary looks up edition counts on openlibrary.org.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://openlibrary.org"
	userAgent      = "Shelf/1.0"
)

// Client queries the OpenLibrary search API. It is safe for concurrent use;
// requests share one rate limiter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a client allowing one request per second with a burst of two.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
		logger:     logger,
	}
}

type searchResponse struct {
	NumFound int `json:"numFound"`
}

// EditionCount returns how many works OpenLibrary knows under title.
func (c *Client) EditionCount(ctx context.Context, title string) (int, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("edition count: %w", err)
	}

	reqURL := c.baseURL + "/search.json?" + url.Values{"title": {title}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("edition count: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("openlibrary request failed", "error", err, "title", title)
		return 0, fmt.Errorf("edition count: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("edition count: unexpected status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("edition count: decode: %w", err)
	}

	c.logger.Debug("openlibrary lookup", "title", title, "numFound", body.NumFound)
	return body.NumFound, nil
}
