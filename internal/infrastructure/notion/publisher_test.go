package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/siddqamar/GMO-FactLens/internal/config"
	"github.com/siddqamar/GMO-FactLens/internal/domain"
)

func newTestPublisher(t *testing.T, handler http.HandlerFunc) (*Publisher, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	p := NewPublisher(config.NotionConfig{
		Token:        "secret",
		ParentPageID: "parent",
		Publish:      true,
	})
	p.http = server.Client()
	p.base = server.URL
	return p, server.Close
}

func TestEnabledRequiresTokenAndParent(t *testing.T) {
	t.Parallel()

	if NewPublisher(config.NotionConfig{Publish: true}).Enabled() {
		t.Error("publisher without credentials must be disabled")
	}
	if NewPublisher(config.NotionConfig{Token: "t", ParentPageID: "p"}).Enabled() {
		t.Error("publisher with publish=false must be disabled")
	}
	if !NewPublisher(config.NotionConfig{Token: "t", ParentPageID: "p", Publish: true}).Enabled() {
		t.Error("credentialed publisher with publish=true must be enabled")
	}
}

func TestPublishNormalizesSelectsAndTruncates(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	p, done := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"page-1"}`))
	})
	defer done()

	article := domain.AnalyzedArticle{
		Classification: "HEALTH", // wrong case, must normalize
		Confidence:     "bogus",  // unknown, must fall back
	}
	article.URL = "https://example.org/a"
	article.Title = "Test"
	article.Content = strings.Repeat("x", 2500)
	article.OverallStatus = domain.StatusUnsure

	if err := p.Publish(context.Background(), "db-1", article); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	props := captured["properties"].(map[string]any)

	if got := selectName(t, props, "Classification"); got != "Health" {
		t.Errorf("classification not normalized: %q", got)
	}
	if got := selectName(t, props, "Confidence"); got != "Medium" {
		t.Errorf("unknown confidence must fall back to Medium, got %q", got)
	}
	if got := selectName(t, props, "Fact Status"); got != "Unclear" {
		t.Errorf("Unsure must map to the Unclear option, got %q", got)
	}

	content := richTextContent(t, props, "Content")
	if len(content) != maxTextLength {
		t.Errorf("content not truncated to %d, got %d", maxTextLength, len(content))
	}
}

func TestCallRetriesOnceOnRateLimit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	p, done := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"code":"rate_limited","message":"slow down"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"db-1"}`))
	})
	defer done()

	id, err := p.CreateCollection(context.Background(), "Run 2024-06-01")
	if err != nil {
		t.Fatalf("CreateCollection after retry: %v", err)
	}
	if id != "db-1" {
		t.Fatalf("unexpected database id: %q", id)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected exactly one retry, got %d calls", calls.Load())
	}
}

func TestCallDoesNotRetryOtherErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	p, done := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"validation_error","message":"bad"}`))
	})
	defer done()

	if _, err := p.CreateCollection(context.Background(), "run"); err == nil {
		t.Fatal("expected validation error to surface")
	}
	if calls.Load() != 1 {
		t.Fatalf("validation errors must not retry, got %d calls", calls.Load())
	}
}

func selectName(t *testing.T, props map[string]any, key string) string {
	t.Helper()
	prop, ok := props[key].(map[string]any)
	if !ok {
		t.Fatalf("missing property %q", key)
	}
	sel := prop["select"].(map[string]any)
	return sel["name"].(string)
}

func richTextContent(t *testing.T, props map[string]any, key string) string {
	t.Helper()
	prop, ok := props[key].(map[string]any)
	if !ok {
		t.Fatalf("missing property %q", key)
	}
	items := prop["rich_text"].([]any)
	text := items[0].(map[string]any)["text"].(map[string]any)
	return text["content"].(string)
}
