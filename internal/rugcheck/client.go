// Package rugcheck fetches token security reports from the rugcheck.xyz API.
// A report is advisory input to classification: fetch failures are expected
// and callers treat a missing report as "not evaluated", not as "safe".
package rugcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public rugcheck API endpoint.
const DefaultBaseURL = "https://api.rugcheck.xyz/v1"

// StatusGood is the only status value the classifier accepts as passing.
const StatusGood = "good"

// Report is a security verdict for a token.
type Report struct {
	Score    int       `json:"score"`
	Status   string    `json:"status"`
	Risks    []Risk    `json:"risks"`
	FileMeta *FileMeta `json:"file_meta"`
}

// Risk describes one flagged issue in a report.
type Risk struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Score       int    `json:"score"`
	Level       string `json:"level"`
}

// FileMeta carries supply-distribution metadata. BundleRatio is the
// fraction (0..1) of supply held by coordinated wallets, absent when the
// analysis did not run.
type FileMeta struct {
	BundleRatio *float64 `json:"bundle_ratio"`
}

// BundleRatio reports the bundled-supply fraction, false when unknown.
func (r *Report) BundleRatio() (float64, bool) {
	if r == nil || r.FileMeta == nil || r.FileMeta.BundleRatio == nil {
		return 0, false
	}
	return *r.FileMeta.BundleRatio, true
}

// IsGood reports whether the token passed the security scan.
func (r *Report) IsGood() bool {
	return r != nil && r.Status == StatusGood
}

// Client is a thin HTTP client for the rugcheck API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a rugcheck client. An empty baseURL selects the
// public API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ScanToken fetches the security report for a token address.
func (c *Client) ScanToken(ctx context.Context, tokenAddress string) (*Report, error) {
	endpoint := fmt.Sprintf("%s/tokens/%s/report", c.baseURL, url.PathEscape(tokenAddress))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching rugcheck report for %s: %w", tokenAddress, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rugcheck API error: status %d", resp.StatusCode)
	}

	var report Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("error parsing report: %w", err)
	}
	return &report, nil
}
