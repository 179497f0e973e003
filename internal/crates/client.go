// Package crates is a minimal crates.io registry client.
package crates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://crates.io/api/v1"
	DefaultUserAgent = "statbadge (https://github.com/UnitVectorY-Labs/statbadge)"
	defaultTimeout   = 30 * time.Second
)

// Client queries per-crate download counts.
type Client struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient returns a client for baseURL, falling back to crates.io.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		UserAgent:  DefaultUserAgent,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// DownloadEntry is one dated download bucket.
type DownloadEntry struct {
	Downloads int64  `json:"downloads"`
	Date      string `json:"date"`
	Version   int64  `json:"version,omitempty"`
}

// Breakdown is the body of /crates/{name}/downloads.
type Breakdown struct {
	Meta struct {
		ExtraDownloads []DownloadEntry `json:"extra_downloads"`
	} `json:"meta"`
	VersionDownloads []DownloadEntry `json:"version_downloads"`
}

// Total sums every bucket of the breakdown.
func (b Breakdown) Total() int64 {
	var total int64
	for _, d := range b.Meta.ExtraDownloads {
		total += d.Downloads
	}
	for _, d := range b.VersionDownloads {
		total += d.Downloads
	}
	return total
}

// CrateDownloads returns the all-time download count from /crates/{name}.
func (c *Client) CrateDownloads(ctx context.Context, name string) (int64, error) {
	var body struct {
		Crate *struct {
			Downloads *int64 `json:"downloads"`
		} `json:"crate"`
	}
	if err := c.get(ctx, "/crates/"+url.PathEscape(name), &body); err != nil {
		return 0, err
	}
	if body.Crate == nil || body.Crate.Downloads == nil {
		return 0, fmt.Errorf("crate %s: response has no crate.downloads", name)
	}
	return *body.Crate.Downloads, nil
}

// DownloadBreakdown returns the dated download buckets for a crate.
func (c *Client) DownloadBreakdown(ctx context.Context, name string) (Breakdown, error) {
	var raw struct {
		Meta *struct {
			ExtraDownloads []DownloadEntry `json:"extra_downloads"`
		} `json:"meta"`
		VersionDownloads *[]DownloadEntry `json:"version_downloads"`
	}
	if err := c.get(ctx, "/crates/"+url.PathEscape(name)+"/downloads", &raw); err != nil {
		return Breakdown{}, err
	}
	if raw.Meta == nil || raw.VersionDownloads == nil {
		return Breakdown{}, fmt.Errorf("crate %s: response has no download breakdown", name)
	}

	var b Breakdown
	b.Meta.ExtraDownloads = raw.Meta.ExtraDownloads
	b.VersionDownloads = *raw.VersionDownloads
	return b, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request %s: unexpected status %s: %s", path, resp.Status, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
