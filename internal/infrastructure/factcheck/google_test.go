package factcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/siddqamar/GMO-FactLens/internal/config"
	"github.com/siddqamar/GMO-FactLens/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := NewClient(config.FactCheckConfig{
		Endpoint:     server.URL,
		APIKey:       "k",
		LanguageCode: "en",
	})
	client.http = server.Client()
	return client, server.Close
}

func TestCheckClaimMapsReviewToVerdict(t *testing.T) {
	t.Parallel()

	client, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("languageCode") != "en" || q.Get("key") != "k" {
			t.Errorf("missing query parameters: %v", q)
		}
		_, _ = w.Write([]byte(`{
			"claims": [{
				"claimReview": [{
					"textualRating": "False",
					"url": "https://checker.example/review",
					"reviewDate": "2024-06-01",
					"publisher": {"name": "Checker", "site": "checker.example"}
				}]
			}]
		}`))
	})
	defer done()

	got, err := client.CheckClaim(context.Background(), "gmo corn causes illness")
	if err != nil {
		t.Fatalf("CheckClaim error: %v", err)
	}
	if got.Status != domain.StatusMyth {
		t.Fatalf("rating %q must map to Myth, got %s", got.Rating, got.Status)
	}
	if got.Publisher != "Checker" || got.Confidence != "high" {
		t.Fatalf("unexpected verdict: %+v", got)
	}
}

func TestCheckClaimTrueRatingsMapToFact(t *testing.T) {
	t.Parallel()

	for _, rating := range []string{"True", "FACT", "true"} {
		rating := rating
		client, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"claims":[{"claimReview":[{"textualRating":"` + rating + `"}]}]}`))
		})

		got, err := client.CheckClaim(context.Background(), "claim")
		done()
		if err != nil {
			t.Fatalf("CheckClaim error: %v", err)
		}
		if got.Status != domain.StatusFact {
			t.Fatalf("rating %q must map to Fact, got %s", rating, got.Status)
		}
	}
}

func TestCheckClaimNoDataIsUnsure(t *testing.T) {
	t.Parallel()

	client, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	defer done()

	got, err := client.CheckClaim(context.Background(), "unreviewed claim")
	if err != nil {
		t.Fatalf("empty result must not be an error: %v", err)
	}
	if got.Status != domain.StatusUnsure || got.Rating != "No fact-check found" {
		t.Fatalf("unexpected no-data verdict: %+v", got)
	}
	if got.Confidence != "low" {
		t.Fatalf("no-data verdict must have low confidence, got %q", got.Confidence)
	}
}

func TestCheckClaimServerErrorSurfaces(t *testing.T) {
	t.Parallel()

	client, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	})
	defer done()

	if _, err := client.CheckClaim(context.Background(), "claim"); err == nil {
		t.Fatal("expected transport error to surface to the stage")
	}
}
