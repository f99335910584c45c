package appstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultLookupBaseURL is the public iTunes lookup endpoint.
const DefaultLookupBaseURL = "https://itunes.apple.com"

// DefaultLookupTimeout bounds a single lookup request.
const DefaultLookupTimeout = 10 * time.Second

// LookupClient resolves Apple numeric app IDs to bundle IDs via the iTunes
// lookup API. It implements BundleLookup.
type LookupClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewLookupClient creates a LookupClient. baseURL may be empty to use the
// public endpoint; timeout may be zero to use the default.
func NewLookupClient(baseURL string, timeout time.Duration) *LookupClient {
	if baseURL == "" {
		baseURL = DefaultLookupBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &LookupClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type lookupResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		BundleID string `json:"bundleId"`
	} `json:"results"`
}

// BundleID looks up the bundle ID for a numeric App Store track ID. It
// returns ErrUnknownApp when the store has no app under that ID.
func (c *LookupClient) BundleID(ctx context.Context, appID string) (string, error) {
	endpoint := fmt.Sprintf("%s/lookup?id=%s", c.baseURL, appID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build lookup request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("itunes lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("itunes lookup: HTTP %d", resp.StatusCode)
	}
	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode lookup response: %w", err)
	}
	if payload.ResultCount < 1 || len(payload.Results) == 0 || payload.Results[0].BundleID == "" {
		return "", ErrUnknownApp
	}
	return payload.Results[0].BundleID, nil
}
