package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewsAPISource_KeywordUsesSearchEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/everything" {
			t.Errorf("expected /everything, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "golang" {
			t.Errorf("expected q=golang, got %q", got)
		}
		if got := r.URL.Query().Get("sortBy"); got != "publishedAt" {
			t.Errorf("expected sortBy=publishedAt, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"articles": [
			{"title": "Go 1.22 released", "source": {"name": "The Go Blog"}, "url": "https://go.dev"},
			{"title": "", "source": {"name": "Dropped"}, "url": ""},
			{"title": "No source name", "source": {}, "url": ""}
		]}`))
	}))
	defer srv.Close()

	src := NewNewsAPISource(srv.Client(), "test-key")
	src.baseURL = srv.URL

	items, err := src.FetchNews(context.Background(), "golang")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected the untitled article to be dropped, got %+v", items)
	}
	if items[0].Source != "The Go Blog" {
		t.Fatalf("unexpected source: %+v", items[0])
	}
	if items[1].Source != "Unknown" {
		t.Fatalf("expected missing source name to default to Unknown, got %+v", items[1])
	}
}

func TestNewsAPISource_NoKeywordUsesTopHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/top-headlines" {
			t.Errorf("expected /top-headlines, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("country"); got != "us" {
			t.Errorf("expected country=us, got %q", got)
		}
		if got := r.URL.Query().Get("pageSize"); got != "5" {
			t.Errorf("expected pageSize=5, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"articles": []}`))
	}))
	defer srv.Close()

	src := NewNewsAPISource(srv.Client(), "test-key")
	src.baseURL = srv.URL

	items, err := src.FetchNews(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %+v", items)
	}
}

func TestNewsAPISource_MissingKeyIsAnError(t *testing.T) {
	src := NewNewsAPISource(http.DefaultClient, "")

	_, err := src.FetchNews(context.Background(), "golang")
	if !errors.Is(err, errMissingAPIKey) {
		t.Fatalf("expected missing-key error, got %v", err)
	}
}
