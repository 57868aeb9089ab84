package ports

import (
	"context"

	"github.com/siddqamar/GMO-FactLens/internal/domain"
)

// URLSource discovers candidate article URLs for a topic.
type URLSource interface {
	Name() string
	Discover(ctx context.Context, topic string, maxResults int) ([]string, error)
}

// PageScraper downloads one page and extracts cleaned text plus metadata.
type PageScraper interface {
	Scrape(ctx context.Context, url string) (domain.ScrapedArticle, error)
}

// TextGenerator sends a prompt to an LLM and returns the raw reply text.
// Replies carry no enforced schema; callers parse defensively.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ClaimChecker looks up one claim against a fact-check search provider.
type ClaimChecker interface {
	CheckClaim(ctx context.Context, claim string) (domain.ClaimVerdict, error)
}

// ArticleStore persists analyzed articles and run sessions.
type ArticleStore interface {
	SaveArticles(ctx context.Context, articles []domain.AnalyzedArticle) (int, error)
	SaveSession(ctx context.Context, session domain.Session) (int64, error)
	RecentArticles(ctx context.Context, limit int) ([]domain.StoredArticle, error)
	RecentSessions(ctx context.Context, limit int) ([]domain.Session, error)
	ArticlesByTopic(ctx context.Context, topic string) ([]domain.StoredArticle, error)
	Stats(ctx context.Context) (domain.StoreStats, error)
}

// Publisher pushes analyzed articles to an external workspace. It is an
// optional capability: callers must check Enabled before invoking.
type Publisher interface {
	Enabled() bool
	CreateCollection(ctx context.Context, runName string) (string, error)
	Publish(ctx context.Context, collectionID string, article domain.AnalyzedArticle) error
}

// Notifier delivers a run digest to an out-of-band channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Progress is the presentation collaborator: it receives per-item stage
// updates and human-readable report lines. Implementations must tolerate
// being called from a single pipeline goroutine only.
type Progress interface {
	Step(stage string, current, total int, detail string)
	Note(message string)
}

// Scheduler controls when recurring pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func()) error
	Stop(ctx context.Context) error
}
