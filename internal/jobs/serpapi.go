package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/avashisth/buddy-backend/internal/domain"
)

const serpAPIURL = "https://serpapi.com/search"

// SerpAPIClient fetches postings from the SerpAPI google_jobs engine.
type SerpAPIClient struct {
	APIURL     string
	HTTPClient *http.Client

	apiKey string
}

// NewSerpAPIClient creates a SerpAPI-backed job source.
func NewSerpAPIClient(apiKey string) *SerpAPIClient {
	return &SerpAPIClient{
		APIURL: serpAPIURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		apiKey: apiKey,
	}
}

// Search retrieves google_jobs results for the title and location.
func (c *SerpAPIClient) Search(ctx context.Context, title, location string) ([]domain.Listing, error) {
	q := url.Values{}
	q.Set("engine", "google_jobs")
	q.Set("q", title)
	q.Set("location", location)
	q.Set("hl", "en")
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: serpapi request: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: serpapi bad status: %s", domain.ErrUpstreamUnavailable, resp.Status)
	}

	var payload struct {
		JobsResults []map[string]any `json:"jobs_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: serpapi decode: %v", domain.ErrUpstreamUnavailable, err)
	}

	var listings []domain.Listing
	cfg := &mapstructure.DecoderConfig{
		Result:  &listings,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("serpapi build decoder: %w", err)
	}
	if err := decoder.Decode(payload.JobsResults); err != nil {
		return nil, fmt.Errorf("%w: serpapi map results: %v", domain.ErrUpstreamUnavailable, err)
	}

	return listings, nil
}
