package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/siddqamar/GMO-FactLens/internal/domain"
	"github.com/siddqamar/GMO-FactLens/internal/ports"
	"github.com/siddqamar/GMO-FactLens/internal/source"
)

// ErrRunInProgress is returned when a run is requested while another one
// still holds the pipeline.
var ErrRunInProgress = errors.New("an analysis run is already in progress")

// RunResult is everything one finished run produced.
type RunResult struct {
	Topic     string                   `json:"topic"`
	Articles  []domain.AnalyzedArticle `json:"articles"`
	Session   domain.Session           `json:"session"`
	Report    []string                 `json:"report"`
	StartedAt time.Time                `json:"started_at"`
	Duration  time.Duration            `json:"duration"`
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source      ports.URLSource
	Scraper     ports.PageScraper
	Summarizer  *Summarizer
	FactChecker *FactChecker
	Analyzer    *Analyzer
	Store       ports.ArticleStore
	Publisher   ports.Publisher
	Notifier    ports.Notifier
	FetchDelay  time.Duration
	Log         *slog.Logger
}

// Pipeline implements the search-scrape-summarize-check-classify workflow.
type Pipeline struct {
	source      ports.URLSource
	scraper     ports.PageScraper
	summarizer  *Summarizer
	factChecker *FactChecker
	analyzer    *Analyzer
	store       ports.ArticleStore
	publisher   ports.Publisher
	notifier    ports.Notifier
	fetchPacer  *rate.Limiter
	log         *slog.Logger

	// runMu serializes runs: Run waits its turn, TryRun gives up.
	runMu sync.Mutex

	historyMu sync.Mutex
	history   []domain.RunRecord
	last      *RunResult
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:      deps.Source,
		scraper:     deps.Scraper,
		summarizer:  deps.Summarizer,
		factChecker: deps.FactChecker,
		analyzer:    deps.Analyzer,
		store:       deps.Store,
		publisher:   deps.Publisher,
		notifier:    deps.Notifier,
		fetchPacer:  newPacer(deps.FetchDelay),
		log:         deps.Log.With("component", "pipeline"),
	}
}

// Run executes one full analysis for the topic. Runs are strictly
// serialized: a second caller blocks until the active run finishes.
func (p *Pipeline) Run(ctx context.Context, topic string, maxResults int, progress ports.Progress) (*RunResult, error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	return p.run(ctx, topic, maxResults, progress)
}

// TryRun behaves like Run but refuses to queue behind an active run.
// Scheduled scans use it so a slow interactive run cannot pile them up.
func (p *Pipeline) TryRun(ctx context.Context, topic string, maxResults int, progress ports.Progress) (*RunResult, error) {
	if !p.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer p.runMu.Unlock()
	return p.run(ctx, topic, maxResults, progress)
}

func (p *Pipeline) run(ctx context.Context, topic string, maxResults int, progress ports.Progress) (*RunResult, error) {
	started := time.Now()
	result := &RunResult{Topic: topic, StartedAt: started}
	report := func(format string, args ...any) {
		line := fmt.Sprintf(format, args...)
		result.Report = append(result.Report, line)
		progress.Note(line)
	}

	p.log.Info("run started", "topic", topic, "max_results", maxResults)

	// Discover.
	urls, err := p.source.Discover(ctx, topic, maxResults)
	if err != nil {
		return nil, fmt.Errorf("discover urls: %w", err)
	}
	valid, dropped := source.ValidateURLs(urls)
	if len(dropped) > 0 {
		report("Dropped %d invalid URLs", len(dropped))
	}
	if len(valid) == 0 {
		report("No articles found for topic %q", topic)
		p.finish(result, started)
		return result, nil
	}
	report("Found %d article URLs", len(valid))

	// Scrape.
	scraped := p.scrape(ctx, valid, progress, report)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if len(scraped) == 0 {
		report("No articles could be scraped")
		p.finish(result, started)
		return result, nil
	}

	// Summarize.
	summarized, err := p.summarizer.Summarize(ctx, scraped, progress)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	// Fact-check.
	checked, err := p.factChecker.Check(ctx, summarized, progress)
	if err != nil {
		return nil, fmt.Errorf("fact check: %w", err)
	}

	// Classify.
	analyzed, err := p.analyzer.Analyze(ctx, checked, progress)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	result.Articles = analyzed

	// Persist.
	session := domain.NewSession(topic, analyzed)
	if p.store != nil {
		saved, err := p.store.SaveArticles(ctx, analyzed)
		if err != nil {
			report("Persistence failed: %v", err)
		} else {
			report("Saved %d articles", saved)
		}

		id, err := p.store.SaveSession(ctx, session)
		if err != nil {
			report("Session save failed: %v", err)
		} else {
			session.ID = id
		}
	}
	result.Session = session

	p.publish(ctx, topic, analyzed, report)
	p.notify(ctx, session)

	p.finish(result, started)
	p.record(result)
	p.log.Info("run finished", "topic", topic, "articles", len(analyzed),
		"duration", result.Duration)
	return result, nil
}

func (p *Pipeline) scrape(ctx context.Context, urls []string, progress ports.Progress, report func(string, ...any)) []domain.ScrapedArticle {
	scraped := make([]domain.ScrapedArticle, 0, len(urls))
	for i, u := range urls {
		progress.Step("scrape", i+1, len(urls), u)

		if err := p.fetchPacer.Wait(ctx); err != nil {
			return scraped
		}

		article, err := p.scraper.Scrape(ctx, u)
		if err != nil {
			p.log.Warn("scrape failed", "url", u, "error", err)
			continue
		}
		scraped = append(scraped, article)
	}
	report("Scraped %d of %d articles", len(scraped), len(urls))
	return scraped
}

func (p *Pipeline) publish(ctx context.Context, topic string, articles []domain.AnalyzedArticle, report func(string, ...any)) {
	if p.publisher == nil || !p.publisher.Enabled() || len(articles) == 0 {
		return
	}

	runName := fmt.Sprintf("%s - %s", topic, time.Now().Format("2006-01-02 15:04"))
	collectionID, err := p.publisher.CreateCollection(ctx, runName)
	if err != nil {
		report("Notion publishing failed: %v", err)
		return
	}

	published := 0
	for _, a := range articles {
		if err := p.publisher.Publish(ctx, collectionID, a); err != nil {
			p.log.Warn("notion publish failed", "url", a.URL, "error", err)
			continue
		}
		published++
	}
	report("Published %d articles to Notion", published)
}

func (p *Pipeline) notify(ctx context.Context, session domain.Session) {
	if p.notifier == nil {
		return
	}
	digest := fmt.Sprintf("*Analysis finished: %s*\nArticles: %d\nFacts: %d | Myths: %d | Unclear: %d",
		session.Topic, session.ArticlesFound, session.FactsCount, session.MythsCount, session.UnclearCount)
	if err := p.notifier.PublishDigest(ctx, digest); err != nil {
		p.log.Warn("digest delivery failed", "error", err)
	}
}

func (p *Pipeline) finish(result *RunResult, started time.Time) {
	result.Duration = time.Since(started)

	p.historyMu.Lock()
	p.last = result
	p.historyMu.Unlock()
}

func (p *Pipeline) record(result *RunResult) {
	p.historyMu.Lock()
	defer p.historyMu.Unlock()
	p.history = append(p.history, domain.RunRecord{
		Topic:     result.Topic,
		Timestamp: result.StartedAt,
		Articles:  len(result.Articles),
		SessionID: result.Session.ID,
	})
}

// LastResult returns the most recently finished run, or nil.
func (p *Pipeline) LastResult() *RunResult {
	p.historyMu.Lock()
	defer p.historyMu.Unlock()
	return p.last
}

// History returns run records, newest last.
func (p *Pipeline) History() []domain.RunRecord {
	p.historyMu.Lock()
	defer p.historyMu.Unlock()
	out := make([]domain.RunRecord, len(p.history))
	copy(out, p.history)
	return out
}
