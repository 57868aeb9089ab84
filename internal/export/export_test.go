package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/siddqamar/GMO-FactLens/internal/domain"
)

func sampleArticles() []domain.AnalyzedArticle {
	a := domain.AnalyzedArticle{
		Classification:   "Health",
		Confidence:       "high",
		KeyThemes:        []string{"safety", "regulation"},
		AnalysisNotes:    "well sourced",
		Sentiment:        "negative",
		CredibilityScore: 0.75,
	}
	a.URL = "https://example.org/a"
	a.Title = "A"
	a.Content = "content"
	a.Summary = "summary"
	a.Claims = []string{"claim one goes here and is long enough"}
	a.FactCheckResults = []domain.ClaimVerdict{{
		Claim:      "claim one goes here and is long enough",
		Status:     domain.StatusMyth,
		Rating:     "False",
		Publisher:  "Checker",
		Confidence: "high",
	}}
	a.OverallStatus = domain.StatusMyth
	return []domain.AnalyzedArticle{a}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	t.Parallel()

	want := sampleArticles()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, want); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}

	var got []domain.AnalyzedArticle
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode exported JSON: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip lost data:\n got %+v\nwant %+v", got, want)
	}
}

func TestWriteJSONUsesStableKeys(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleArticles()); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}

	for _, key := range []string{
		`"overall_fact_status"`, `"fact_check_results"`, `"credibility_score"`,
	} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("exported JSON is missing key %s", key)
		}
	}
}

func TestWriteCSVFlattensRows(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleArticles()); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse exported CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}

	row := rows[1]
	if row[0] != "https://example.org/a" || row[4] != "Myth" {
		t.Errorf("unexpected row: %v", row)
	}
	if row[7] != "safety; regulation" {
		t.Errorf("themes not joined: %q", row[7])
	}
	if row[10] != "0.75" {
		t.Errorf("unexpected credibility: %q", row[10])
	}
}
