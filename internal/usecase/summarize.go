package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/siddqamar/GMO-FactLens/internal/domain"
	"github.com/siddqamar/GMO-FactLens/internal/ports"
)

const summaryPromptBudget = 3000

// Summarizer turns scraped article text into short LLM summaries.
type Summarizer struct {
	generator ports.TextGenerator
	limiter   *rate.Limiter
	log       *slog.Logger
}

// NewSummarizer builds the stage. delay spaces consecutive LLM calls;
// zero or negative disables pacing.
func NewSummarizer(generator ports.TextGenerator, delay time.Duration, log *slog.Logger) *Summarizer {
	return &Summarizer{
		generator: generator,
		limiter:   newPacer(delay),
		log:       log.With("component", "summarizer"),
	}
}

// Summarize processes every article, never dropping one: an article whose
// LLM call fails carries the failure sentinel instead.
func (s *Summarizer) Summarize(ctx context.Context, articles []domain.ScrapedArticle, progress ports.Progress) ([]domain.SummarizedArticle, error) {
	out := make([]domain.SummarizedArticle, 0, len(articles))
	for i, article := range articles {
		progress.Step("summarize", i+1, len(articles), article.Title)

		if err := s.limiter.Wait(ctx); err != nil {
			return out, err
		}

		summary, err := s.summarizeOne(ctx, article)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			s.log.Warn("summarization failed", "url", article.URL, "error", err)
			summary = domain.FailedSummary
		}

		out = append(out, domain.SummarizedArticle{
			ScrapedArticle: article,
			Summary:        summary,
		})
	}
	return out, nil
}

func (s *Summarizer) summarizeOne(ctx context.Context, article domain.ScrapedArticle) (string, error) {
	content := article.Content
	if len(content) > summaryPromptBudget {
		content = content[:summaryPromptBudget]
	}

	prompt := fmt.Sprintf(`Write a 2-3 sentence objective summary of the following article. Reply with the summary text only, no extra formatting.

Title: %s
URL: %s

Content:
%s`, article.Title, article.URL, content)

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", fmt.Errorf("empty summary")
	}
	return reply, nil
}

// newPacer builds a limiter that allows one call, then one per delay.
func newPacer(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}
