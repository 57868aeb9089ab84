// Package export renders analyzed articles as downloadable JSON and CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/siddqamar/GMO-FactLens/internal/domain"
)

// WriteJSON emits the full records, indented, with nothing dropped:
// decoding the output restores every field.
func WriteJSON(w io.Writer, articles []domain.AnalyzedArticle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		return fmt.Errorf("encode articles: %w", err)
	}
	return nil
}

var csvHeader = []string{
	"url", "title", "summary", "claims", "overall_fact_status",
	"classification", "confidence", "key_themes", "analysis_notes",
	"sentiment", "credibility_score",
}

// WriteCSV emits a flattened row per article. Multi-valued fields are
// joined with "; ".
func WriteCSV(w io.Writer, articles []domain.AnalyzedArticle) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, a := range articles {
		row := []string{
			a.URL,
			a.Title,
			a.Summary,
			strings.Join(a.Claims, "; "),
			string(a.OverallStatus),
			a.Classification,
			a.Confidence,
			strings.Join(a.KeyThemes, "; "),
			a.AnalysisNotes,
			a.Sentiment,
			strconv.FormatFloat(a.CredibilityScore, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row for %s: %w", a.URL, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
