package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/siddqamar/GMO-FactLens/internal/claims"
	"github.com/siddqamar/GMO-FactLens/internal/domain"
	"github.com/siddqamar/GMO-FactLens/internal/infrastructure/factcheck"
	"github.com/siddqamar/GMO-FactLens/internal/ports"
)

// FactChecker verifies the claims extracted from each summary and votes
// an overall status per article.
type FactChecker struct {
	checker ports.ClaimChecker
	enabled bool
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewFactChecker builds the stage. When enabled is false (no API
// credential) articles pass through as Unsure with a note.
func NewFactChecker(checker ports.ClaimChecker, enabled bool, delay time.Duration, log *slog.Logger) *FactChecker {
	return &FactChecker{
		checker: checker,
		enabled: enabled,
		limiter: newPacer(delay),
		log:     log.With("component", "factchecker"),
	}
}

// Check extracts claims from every summary and verifies each one. Lookup
// failures degrade to Unsure verdicts; the stage itself only fails on
// context cancellation.
func (f *FactChecker) Check(ctx context.Context, articles []domain.SummarizedArticle, progress ports.Progress) ([]domain.FactCheckedArticle, error) {
	if !f.enabled {
		progress.Note("Fact-check API key not configured, marking all articles Unsure")
	}

	out := make([]domain.FactCheckedArticle, 0, len(articles))
	for i, article := range articles {
		progress.Step("factcheck", i+1, len(articles), article.Title)

		extracted := claims.Extract(article.Summary)
		verdicts := make([]domain.ClaimVerdict, 0, len(extracted))

		for _, claim := range extracted {
			if !f.enabled {
				verdicts = append(verdicts, factcheck.NoFindingVerdict(claim))
				continue
			}

			if err := f.limiter.Wait(ctx); err != nil {
				return out, err
			}

			verdict, err := f.checker.CheckClaim(ctx, claim)
			if err != nil {
				if ctx.Err() != nil {
					return out, ctx.Err()
				}
				f.log.Warn("claim lookup failed", "claim", claim, "error", err)
				verdict = factcheck.ErrorVerdict(claim)
			}
			verdicts = append(verdicts, verdict)
		}

		out = append(out, domain.FactCheckedArticle{
			SummarizedArticle: article,
			Claims:            extracted,
			FactCheckResults:  verdicts,
			OverallStatus:     voteOverall(verdicts),
		})
	}
	return out, nil
}

// voteOverall picks the plurality status across verdicts. A tie between
// Fact and Myth deliberately lands on Unsure rather than guessing.
func voteOverall(verdicts []domain.ClaimVerdict) domain.FactStatus {
	var facts, myths, unsure int
	for _, v := range verdicts {
		switch v.Status {
		case domain.StatusFact:
			facts++
		case domain.StatusMyth:
			myths++
		default:
			unsure++
		}
	}

	switch {
	case facts > myths && facts > unsure:
		return domain.StatusFact
	case myths > facts && myths > unsure:
		return domain.StatusMyth
	default:
		return domain.StatusUnsure
	}
}
