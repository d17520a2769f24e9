package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avashisth/buddy-backend/internal/domain"
)

const serpAPIFixture = `{
	"search_metadata": {"status": "Success"},
	"jobs_results": [
		{
			"title": "Waiter",
			"company_name": "Blue Plate",
			"location": "Atlanta, GA",
			"via": "via Indeed",
			"description": "Serve guests",
			"job_highlights": [
				{"title": "Qualifications", "items": ["friendly", "reliable"]},
				{"title": "Responsibilities", "items": ["take orders"]}
			]
		},
		{
			"title": "Host",
			"company_name": "Corner Cafe",
			"location": "Atlanta, GA",
			"job_highlights": []
		}
	]
}`

func TestSerpAPISearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("engine") != "google_jobs" {
			t.Errorf("engine = %q, want google_jobs", q.Get("engine"))
		}
		if q.Get("q") != "Waiter" || q.Get("location") != "Atlanta, GA" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Get("api_key") != "test-key" {
			t.Errorf("api_key = %q, want test-key", q.Get("api_key"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(serpAPIFixture))
	}))
	defer srv.Close()

	client := NewSerpAPIClient("test-key")
	client.APIURL = srv.URL

	listings, err := client.Search(context.Background(), "Waiter", "Atlanta, GA")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}

	first := listings[0]
	if first.Title != "Waiter" || first.CompanyName != "Blue Plate" {
		t.Errorf("first listing = %+v", first)
	}
	if len(first.Highlights) != 2 || first.Highlights[0].Title != "Qualifications" {
		t.Fatalf("highlights not decoded: %+v", first.Highlights)
	}
	if first.Highlights[0].Items[1] != "reliable" {
		t.Errorf("highlight items not decoded: %+v", first.Highlights[0].Items)
	}

	want := "Qualifications: friendly\nreliable\n\nResponsibilities: take orders\n\n"
	if got := first.DescriptionText(); got != want {
		t.Errorf("DescriptionText() = %q, want %q", got, want)
	}
}

func TestSerpAPISearchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewSerpAPIClient("bad-key")
	client.APIURL = srv.URL

	_, err := client.Search(context.Background(), "Waiter", "Atlanta, GA")
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("err = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestAdzunaSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("app_id") != "id" || q.Get("app_key") != "key" {
			t.Errorf("credentials not sent: %v", q)
		}
		if q.Get("what") != "Waiter" || q.Get("where") != "Atlanta, GA" {
			t.Errorf("unexpected query %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [
			{"title": "Server", "company": {"display_name": "Grill"}, "location": {"display_name": "Atlanta"}, "description": "serve tables"}
		]}`))
	}))
	defer srv.Close()

	client := NewAdzunaClient("id", "key")
	client.APIURL = srv.URL

	listings, err := client.Search(context.Background(), "Waiter", "Atlanta, GA")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("got %d listings, want 1", len(listings))
	}
	got := listings[0]
	if got.CompanyName != "Grill" || got.Location != "Atlanta" {
		t.Errorf("listing = %+v", got)
	}
	if got.DescriptionText() != "serve tables" {
		t.Errorf("DescriptionText() = %q, want raw description", got.DescriptionText())
	}
}
