// Package storage persists analyzed articles and run sessions in Postgres.
package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/siddqamar/GMO-FactLens/internal/domain"
	"github.com/siddqamar/GMO-FactLens/internal/ports"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS articles (
		id             SERIAL PRIMARY KEY,
		url            TEXT NOT NULL UNIQUE,
		title          TEXT,
		summary        TEXT,
		classification TEXT,
		fact_status    TEXT,
		confidence     TEXT,
		sentiment      TEXT,
		credibility    DOUBLE PRECISION,
		analysis_notes TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS analysis_sessions (
		id             SERIAL PRIMARY KEY,
		topic          TEXT NOT NULL,
		articles_found INTEGER,
		facts_count    INTEGER,
		myths_count    INTEGER,
		unclear_count  INTEGER,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// builder produces Postgres-flavored ($1, $2, ...) statements.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore implements ports.ArticleStore on sqlx.
type PostgresStore struct {
	db *sqlx.DB
}

var _ ports.ArticleStore = (*PostgresStore)(nil)

// Open connects, verifies the connection, and ensures the schema exists.
func Open(dsn string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresStore) ensureSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// SaveArticles upserts each record by URL (last run wins) and returns how
// many rows were written. A failing row is skipped, not fatal to the batch.
func (s *PostgresStore) SaveArticles(ctx context.Context, articles []domain.AnalyzedArticle) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("store is not connected")
	}

	saved := 0
	for _, a := range articles {
		query, args, err := builder.
			Insert("articles").
			Columns("url", "title", "summary", "classification", "fact_status",
				"confidence", "sentiment", "credibility", "analysis_notes").
			Values(a.URL, a.Title, a.Summary, a.Classification, string(a.OverallStatus),
				a.Confidence, a.Sentiment, a.CredibilityScore, a.AnalysisNotes).
			Suffix(`ON CONFLICT (url) DO UPDATE SET
				title = EXCLUDED.title,
				summary = EXCLUDED.summary,
				classification = EXCLUDED.classification,
				fact_status = EXCLUDED.fact_status,
				confidence = EXCLUDED.confidence,
				sentiment = EXCLUDED.sentiment,
				credibility = EXCLUDED.credibility,
				analysis_notes = EXCLUDED.analysis_notes,
				created_at = NOW()`).
			ToSql()
		if err != nil {
			return saved, fmt.Errorf("build upsert: %w", err)
		}

		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			continue
		}
		saved++
	}

	return saved, nil
}

// SaveSession appends one run-summary row and returns its id.
func (s *PostgresStore) SaveSession(ctx context.Context, session domain.Session) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("store is not connected")
	}

	query, args, err := builder.
		Insert("analysis_sessions").
		Columns("topic", "articles_found", "facts_count", "myths_count", "unclear_count").
		Values(session.Topic, session.ArticlesFound, session.FactsCount,
			session.MythsCount, session.UnclearCount).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

// RecentArticles returns up to limit most recently written articles.
func (s *PostgresStore) RecentArticles(ctx context.Context, limit int) ([]domain.StoredArticle, error) {
	query, args, err := builder.
		Select("url", "title", "summary", "classification", "fact_status", "created_at").
		From("articles").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out []domain.StoredArticle
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	return out, nil
}

// RecentSessions returns up to limit most recent run summaries.
func (s *PostgresStore) RecentSessions(ctx context.Context, limit int) ([]domain.Session, error) {
	query, args, err := builder.
		Select("id", "topic", "articles_found", "facts_count", "myths_count",
			"unclear_count", "created_at").
		From("analysis_sessions").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out []domain.Session
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	return out, nil
}

// ArticlesByTopic matches the topic as a substring of url, title, or summary.
func (s *PostgresStore) ArticlesByTopic(ctx context.Context, topic string) ([]domain.StoredArticle, error) {
	pattern := "%" + topic + "%"
	query, args, err := builder.
		Select("url", "title", "summary", "classification", "fact_status", "created_at").
		From("articles").
		Where(sq.Or{
			sq.ILike{"url": pattern},
			sq.ILike{"title": pattern},
			sq.ILike{"summary": pattern},
		}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out []domain.StoredArticle
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("query articles by topic: %w", err)
	}
	return out, nil
}

// Stats aggregates totals plus per-classification and per-status counts.
func (s *PostgresStore) Stats(ctx context.Context) (domain.StoreStats, error) {
	stats := domain.StoreStats{
		ClassificationStats: map[string]int{},
		StatusStats:         map[string]int{},
	}

	if err := s.db.GetContext(ctx, &stats.TotalArticles,
		"SELECT COUNT(*) FROM articles"); err != nil {
		return stats, fmt.Errorf("count articles: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.TotalSessions,
		"SELECT COUNT(*) FROM analysis_sessions"); err != nil {
		return stats, fmt.Errorf("count sessions: %w", err)
	}

	if err := s.groupCount(ctx, "classification", stats.ClassificationStats); err != nil {
		return stats, err
	}
	if err := s.groupCount(ctx, "fact_status", stats.StatusStats); err != nil {
		return stats, err
	}

	return stats, nil
}

func (s *PostgresStore) groupCount(ctx context.Context, column string, into map[string]int) error {
	query, args, err := builder.
		Select(column, "COUNT(*)").
		From("articles").
		GroupBy(column).
		ToSql()
	if err != nil {
		return fmt.Errorf("build group count: %w", err)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("group by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan %s count: %w", column, err)
		}
		into[key] = count
	}
	return rows.Err()
}
