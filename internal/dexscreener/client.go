package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public DexScreener API endpoint.
const DefaultBaseURL = "https://api.dexscreener.com"

// Client is a thin HTTP client for the DexScreener latest-dex API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a DexScreener client. An empty baseURL selects the
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

// SearchPairs returns pairs matching a free-text query.
func (c *Client) SearchPairs(ctx context.Context, query string) ([]Pair, error) {
	endpoint := fmt.Sprintf("%s/latest/dex/search?q=%s", c.baseURL, url.QueryEscape(query))
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("error searching pairs for %q: %w", query, err)
	}
	return resp.Pairs, nil
}

// GetTokenPairs returns all pairs trading a given base token.
func (c *Client) GetTokenPairs(ctx context.Context, tokenAddress string) ([]Pair, error) {
	endpoint := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, url.PathEscape(tokenAddress))
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("error fetching token pairs for %s: %w", tokenAddress, err)
	}
	return resp.Pairs, nil
}

// TokenPriceUSD looks up the current USD price of a token from its most
// liquid pair. The second return is false when no pair carries a price.
func (c *Client) TokenPriceUSD(ctx context.Context, tokenAddress string) (float64, bool, error) {
	pairs, err := c.GetTokenPairs(ctx, tokenAddress)
	if err != nil {
		return 0, false, err
	}
	for i := range pairs {
		if price, ok := pairs[i].PriceUSD(); ok && price > 0 {
			return price, true, nil
		}
	}
	return 0, false, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*SearchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error: status %d: %s", resp.StatusCode, string(body))
	}

	var parsed SearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}
	return &parsed, nil
}
