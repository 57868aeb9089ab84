package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/siddqamar/GMO-FactLens/internal/config"
)

func TestDiscoverExtractsOrganicLinks(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-KEY") != "test-key" {
			t.Errorf("missing api key header")
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload["q"] != "gmo labeling" {
			t.Errorf("unexpected query: %v", payload["q"])
		}

		_, _ = w.Write([]byte(`{
			"organic": [
				{"link": "https://example.org/gmo-labeling-law"},
				{"title": "no link field"},
				{"link": "https://example.com/seed-patents"}
			]
		}`))
	}))
	defer server.Close()

	src := NewSerperSource(config.SearchConfig{
		Endpoint: server.URL,
		APIKey:   "test-key",
	}, nil)

	urls, err := src.Discover(context.Background(), "gmo labeling", 10)
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %v", urls)
	}
	if urls[0] != "https://example.org/gmo-labeling-law" {
		t.Fatalf("unexpected first url: %s", urls[0])
	}
}

func TestDiscoverWithoutKeyReturnsEmpty(t *testing.T) {
	t.Parallel()

	src := NewSerperSource(config.SearchConfig{Endpoint: "http://unused.invalid"}, nil)
	urls, err := src.Discover(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("missing credential must not be an error: %v", err)
	}
	if len(urls) != 0 {
		t.Fatalf("expected empty result, got %v", urls)
	}
}

func TestDiscoverSwallowsServerErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	src := NewSerperSource(config.SearchConfig{Endpoint: server.URL, APIKey: "k"}, nil)
	urls, err := src.Discover(context.Background(), "topic", 5)
	if err != nil {
		t.Fatalf("transport failure must not escalate: %v", err)
	}
	if len(urls) != 0 {
		t.Fatalf("expected empty result, got %v", urls)
	}
}
