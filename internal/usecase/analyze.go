package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/siddqamar/GMO-FactLens/internal/domain"
	"github.com/siddqamar/GMO-FactLens/internal/jsonx"
	"github.com/siddqamar/GMO-FactLens/internal/ports"
	"github.com/siddqamar/GMO-FactLens/internal/retry"
)

// Analyzer classifies fact-checked articles into the fixed category set
// and fills in the qualitative analysis fields.
type Analyzer struct {
	generator ports.TextGenerator
	policy    retry.Policy
	limiter   *rate.Limiter
	log       *slog.Logger
}

// NewAnalyzer builds the stage with the given transport retry policy.
func NewAnalyzer(generator ports.TextGenerator, policy retry.Policy, delay time.Duration, log *slog.Logger) *Analyzer {
	return &Analyzer{
		generator: generator,
		policy:    policy,
		limiter:   newPacer(delay),
		log:       log.With("component", "analyzer"),
	}
}

// classification is the reply schema. Pointer fields distinguish a field
// the model omitted (or nulled) from a legitimate zero value.
type classification struct {
	Classification   *string   `json:"classification"`
	Confidence       *string   `json:"confidence"`
	KeyThemes        *[]string `json:"key_themes"`
	AnalysisNotes    *string   `json:"analysis_notes"`
	Sentiment        *string   `json:"sentiment"`
	CredibilityScore *float64  `json:"credibility_score"`
}

// Analyze classifies every article. The stage never drops an article and
// never returns a model error: anything unusable degrades to the
// low-confidence fallback record. Only context cancellation aborts.
func (a *Analyzer) Analyze(ctx context.Context, articles []domain.FactCheckedArticle, progress ports.Progress) ([]domain.AnalyzedArticle, error) {
	out := make([]domain.AnalyzedArticle, 0, len(articles))
	for i, article := range articles {
		progress.Step("classify", i+1, len(articles), article.Title)

		if err := a.limiter.Wait(ctx); err != nil {
			return out, err
		}

		out = append(out, a.analyzeOne(ctx, article))
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
	}
	return out, nil
}

func (a *Analyzer) analyzeOne(ctx context.Context, article domain.FactCheckedArticle) domain.AnalyzedArticle {
	var reply string
	err := a.policy.Do(ctx, func() error {
		var genErr error
		reply, genErr = a.generator.Generate(ctx, a.prompt(article))
		return genErr
	})
	if err != nil {
		a.log.Warn("classification request failed", "url", article.URL, "error", err)
		return fallbackRecord(article, "Analysis failed after retries")
	}
	if reply == "" {
		return fallbackRecord(article, "Analysis returned an empty reply")
	}

	var parsed classification
	if err := jsonx.Decode(reply, &parsed); err != nil {
		a.log.Warn("classification reply is not valid JSON", "url", article.URL, "error", err)
		return fallbackRecord(article, "Analysis reply could not be parsed")
	}

	return domain.AnalyzedArticle{
		FactCheckedArticle: article,
		Classification:     normalizeCategory(stringOr(parsed.Classification, domain.CategoryOther)),
		Confidence:         stringOr(parsed.Confidence, "medium"),
		KeyThemes:          themesOr(parsed.KeyThemes),
		AnalysisNotes:      stringOr(parsed.AnalysisNotes, "No analysis notes provided"),
		Sentiment:          stringOr(parsed.Sentiment, "neutral"),
		CredibilityScore:   floatOr(parsed.CredibilityScore, 0.5),
	}
}

// fallbackRecord is the hard fallback used when no usable reply exists.
func fallbackRecord(article domain.FactCheckedArticle, note string) domain.AnalyzedArticle {
	return domain.AnalyzedArticle{
		FactCheckedArticle: article,
		Classification:     domain.CategoryOther,
		Confidence:         "low",
		KeyThemes:          []string{},
		AnalysisNotes:      note,
		Sentiment:          "neutral",
		CredibilityScore:   0.3,
	}
}

func (a *Analyzer) prompt(article domain.FactCheckedArticle) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Classify this article about GMOs into exactly one category from the list:
%s

Title: %s
Summary: %s
Overall fact-check status: %s
`, strings.Join(domain.Categories, ", "), article.Title, article.Summary, article.OverallStatus)

	results := article.FactCheckResults
	if len(results) > 3 {
		results = results[:3]
	}
	for _, r := range results {
		fmt.Fprintf(&b, "Fact-check: %q rated %q by %s\n", r.Claim, r.Rating, r.Publisher)
	}

	b.WriteString(`
Respond with a single JSON object and nothing else. No code fences, double-quoted strings, all braces and brackets closed:
{"classification": "<one category>", "confidence": "high|medium|low", "key_themes": ["..."], "analysis_notes": "...", "sentiment": "positive|negative|neutral|mixed", "credibility_score": 0.0}`)

	return b.String()
}

// normalizeCategory matches the model's category ignoring case; anything
// outside the fixed set becomes Other.
func normalizeCategory(value string) string {
	for _, c := range domain.Categories {
		if strings.EqualFold(strings.TrimSpace(value), c) {
			return c
		}
	}
	return domain.CategoryOther
}

func stringOr(v *string, def string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return def
	}
	return strings.TrimSpace(*v)
}

func themesOr(v *[]string) []string {
	if v == nil || *v == nil {
		return []string{}
	}
	return *v
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
