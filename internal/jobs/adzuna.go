package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/avashisth/buddy-backend/internal/domain"
)

const adzunaAPIURL = "https://api.adzuna.com/v1/api/jobs/us/search/1"

// AdzunaClient fetches postings from the Adzuna search API.
type AdzunaClient struct {
	APIURL     string
	HTTPClient *http.Client

	appID  string
	appKey string
}

// NewAdzunaClient creates an Adzuna-backed job source.
func NewAdzunaClient(appID, appKey string) *AdzunaClient {
	return &AdzunaClient{
		APIURL: adzunaAPIURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		appID:  appID,
		appKey: appKey,
	}
}

type adzunaJob struct {
	Title   string `json:"title"`
	Company struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	Description string `json:"description"`
}

// Search retrieves recent part-time friendly postings for the title and
// location. Adzuna has no highlight sections, so the plain description
// doubles as the posting text.
func (c *AdzunaClient) Search(ctx context.Context, title, location string) ([]domain.Listing, error) {
	q := url.Values{}
	q.Set("app_id", c.appID)
	q.Set("app_key", c.appKey)
	q.Set("what", title)
	q.Set("where", location)
	q.Set("results_per_page", "10")
	q.Set("max_days_old", "15")
	q.Set("part_time", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: adzuna request: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: adzuna bad status: %s", domain.ErrUpstreamUnavailable, resp.Status)
	}

	var payload struct {
		Results []adzunaJob `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: adzuna decode: %v", domain.ErrUpstreamUnavailable, err)
	}

	listings := make([]domain.Listing, 0, len(payload.Results))
	for _, j := range payload.Results {
		listings = append(listings, domain.Listing{
			Title:       j.Title,
			CompanyName: j.Company.DisplayName,
			Location:    j.Location.DisplayName,
			Description: j.Description,
		})
	}
	return listings, nil
}
