// Package app wires configuration into the running application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/siddqamar/GMO-FactLens/internal/config"
	"github.com/siddqamar/GMO-FactLens/internal/infrastructure/factcheck"
	"github.com/siddqamar/GMO-FactLens/internal/infrastructure/feed"
	"github.com/siddqamar/GMO-FactLens/internal/infrastructure/llm"
	"github.com/siddqamar/GMO-FactLens/internal/infrastructure/notion"
	"github.com/siddqamar/GMO-FactLens/internal/infrastructure/scheduler"
	"github.com/siddqamar/GMO-FactLens/internal/infrastructure/scraper"
	"github.com/siddqamar/GMO-FactLens/internal/infrastructure/search"
	"github.com/siddqamar/GMO-FactLens/internal/infrastructure/storage"
	"github.com/siddqamar/GMO-FactLens/internal/infrastructure/telegram"
	"github.com/siddqamar/GMO-FactLens/internal/ports"
	"github.com/siddqamar/GMO-FactLens/internal/retry"
	"github.com/siddqamar/GMO-FactLens/internal/server"
	"github.com/siddqamar/GMO-FactLens/internal/source"
	"github.com/siddqamar/GMO-FactLens/internal/usecase"
)

// Application owns the wired pipeline, the HTTP listener, and the
// recurring-scan watcher.
type Application struct {
	cfg     config.Config
	log     *slog.Logger
	store   *storage.PostgresStore
	watcher *usecase.Watcher
	httpSrv *http.Server
}

// New builds the full object graph. Optional collaborators (storage,
// Notion, Telegram) degrade to disabled instead of failing startup; the
// LLM credential is the only hard requirement.
func New(cfg config.Config, log *slog.Logger) (*Application, error) {
	generator, err := llm.NewClient(cfg.OpenAI)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}

	registry := source.NewRegistry()
	registry.Register(search.NewSerperSource(cfg.Search, log))
	if len(cfg.Feeds) > 0 {
		registry.Register(feed.NewSource(cfg.Feeds, log))
	}
	urls := source.NewComposite(registry, log)

	pages := scraper.New(&http.Client{Timeout: 15 * time.Second}, cfg.Scraper.MaxContentLength)

	var store *storage.PostgresStore
	if cfg.Database.DSN != "" {
		store, err = storage.Open(cfg.Database.DSN)
		if err != nil {
			log.Warn("storage unavailable, persistence disabled", "error", err)
			store = nil
		}
	}

	checker := factCheckClient(cfg, log)

	var publisher ports.Publisher = notion.NewPublisher(cfg.Notion)

	var notifier ports.Notifier
	if tg := telegram.NewNotifier(cfg.Telegram); tg.Enabled() {
		notifier = tg
	}

	hub := server.NewHub(log)
	progress := newProgressFanout(hub, newLogProgress(log))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:  urls,
		Scraper: pages,
		Summarizer: usecase.NewSummarizer(
			generator, cfg.OpenAI.SummarizeDelay, log),
		FactChecker: usecase.NewFactChecker(
			checker, cfg.FactCheck.APIKey != "", cfg.FactCheck.CheckDelay, log),
		Analyzer: usecase.NewAnalyzer(
			generator,
			retry.Policy{
				MaxAttempts: cfg.Analyzer.MaxAttempts,
				BackoffBase: cfg.Analyzer.BackoffBase,
			},
			cfg.Analyzer.ClassifyDelay, log),
		Store:      storeOrNil(store),
		Publisher:  publisher,
		Notifier:   notifier,
		FetchDelay: cfg.Scraper.FetchDelay,
		Log:        log,
	})

	watcher := usecase.NewWatcher(
		pipeline,
		scheduler.NewCronScheduler(cfg.Watch.CronExpression),
		cfg.Watch.Topics,
		cfg.Search.MaxResults,
		progress,
		log,
	)

	srv := server.New(pipeline, storeOrNil(store), hub, log)
	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Application{
		cfg:     cfg,
		log:     log,
		store:   store,
		watcher: watcher,
		httpSrv: httpSrv,
	}, nil
}

// Run serves HTTP and the recurring scans until the context is canceled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server listening", "addr", a.httpSrv.Addr)
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = a.watcher.Stop(shutdownCtx)
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		a.log.Warn("http shutdown incomplete", "error", err)
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	return nil
}

func factCheckClient(cfg config.Config, log *slog.Logger) ports.ClaimChecker {
	if cfg.FactCheck.APIKey == "" {
		log.Warn("fact-check api key missing, verdicts will be Unsure")
	}
	return factcheck.NewClient(cfg.FactCheck)
}

// storeOrNil converts a typed nil into a nil interface.
func storeOrNil(store *storage.PostgresStore) ports.ArticleStore {
	if store == nil {
		return nil
	}
	return store
}
