// Package notion publishes analyzed articles to a Notion workspace as a
// per-run database of pages.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/siddqamar/GMO-FactLens/internal/config"
	"github.com/siddqamar/GMO-FactLens/internal/domain"
	"github.com/siddqamar/GMO-FactLens/internal/ports"
)

const (
	apiBase       = "https://api.notion.com/v1"
	apiVersion    = "2022-06-28"
	maxTextLength = 2000 // Notion rich_text limit per block
	retryDelay    = time.Second
)

// Publisher implements ports.Publisher against the Notion REST API.
type Publisher struct {
	token      string
	parentPage string
	publish    bool
	http       *http.Client
	base       string
}

var _ ports.Publisher = (*Publisher)(nil)

// NewPublisher builds a publisher from configuration. It never fails;
// a missing token just leaves the publisher disabled.
func NewPublisher(cfg config.NotionConfig) *Publisher {
	return &Publisher{
		token:      cfg.Token,
		parentPage: cfg.ParentPageID,
		publish:    cfg.Publish,
		http:       &http.Client{Timeout: 30 * time.Second},
		base:       apiBase,
	}
}

// Enabled reports whether publishing is switched on and credentialed.
func (p *Publisher) Enabled() bool {
	return p.publish && p.token != "" && p.parentPage != ""
}

// Select option sets. Incoming values are normalized case-insensitively;
// anything unrecognized falls to the set's default.
var (
	statusOptions     = []string{"Fact", "Myth", "Unclear"}
	confidenceOptions = []string{"High", "Medium", "Low"}
)

// CreateCollection creates a new database under the configured parent
// page and returns its id.
func (p *Publisher) CreateCollection(ctx context.Context, runName string) (string, error) {
	categories := make([]map[string]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		categories = append(categories, map[string]string{"name": c})
	}

	body := map[string]any{
		"parent": map[string]string{"type": "page_id", "page_id": p.parentPage},
		"title": []map[string]any{
			{"type": "text", "text": map[string]string{"content": runName}},
		},
		"properties": map[string]any{
			"Title":   map[string]any{"title": map[string]any{}},
			"URL":     map[string]any{"url": map[string]any{}},
			"Content": map[string]any{"rich_text": map[string]any{}},
			"Summary": map[string]any{"rich_text": map[string]any{}},
			"Claims":  map[string]any{"rich_text": map[string]any{}},
			"Fact Status": map[string]any{
				"select": map[string]any{"options": selectOptions(statusOptions)},
			},
			"Classification": map[string]any{
				"select": map[string]any{"options": categories},
			},
			"Confidence": map[string]any{
				"select": map[string]any{"options": selectOptions(confidenceOptions)},
			},
			"Analysis Notes": map[string]any{"rich_text": map[string]any{}},
			"Analysis Date":  map[string]any{"date": map[string]any{}},
		},
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := p.call(ctx, http.MethodPost, "/databases", body, &created); err != nil {
		return "", fmt.Errorf("create database: %w", err)
	}
	return created.ID, nil
}

// Publish writes one article as a page in the given database.
func (p *Publisher) Publish(ctx context.Context, collectionID string, a domain.AnalyzedArticle) error {
	body := map[string]any{
		"parent": map[string]string{"database_id": collectionID},
		"properties": map[string]any{
			"Title":          titleProp(a.Title),
			"URL":            map[string]any{"url": a.URL},
			"Content":        richTextProp(a.Content),
			"Summary":        richTextProp(a.Summary),
			"Claims":         richTextProp(strings.Join(a.Claims, "\n")),
			"Fact Status":    selectProp(string(a.OverallStatus), statusOptions, "Unclear"),
			"Classification": selectProp(a.Classification, domain.Categories, domain.CategoryOther),
			"Confidence":     selectProp(a.Confidence, confidenceOptions, "Medium"),
			"Analysis Notes": richTextProp(a.AnalysisNotes),
			"Analysis Date": map[string]any{
				"date": map[string]string{"start": time.Now().Format("2006-01-02")},
			},
		},
	}

	if err := p.call(ctx, http.MethodPost, "/pages", body, nil); err != nil {
		return fmt.Errorf("publish %s: %w", a.URL, err)
	}
	return nil
}

// call performs one API request, retrying once after a pause when the
// API reports rate limiting.
func (p *Publisher) call(ctx context.Context, method, path string, body, out any) error {
	err := p.doRequest(ctx, method, path, body, out)
	if err == nil || !isRateLimited(err) {
		return err
	}

	select {
	case <-time.After(retryDelay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return p.doRequest(ctx, method, path, body, out)
}

type apiError struct {
	Status int
	Code   string
	Text   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("notion api %d (%s): %s", e.Status, e.Code, e.Text)
}

func isRateLimited(err error) bool {
	apiErr, ok := err.(*apiError)
	return ok && (apiErr.Code == "rate_limited" || apiErr.Status == http.StatusTooManyRequests)
}

func (p *Publisher) doRequest(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("notion request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		var decoded struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &decoded)
		return &apiError{Status: resp.StatusCode, Code: decoded.Code, Text: decoded.Message}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func selectOptions(names []string) []map[string]string {
	out := make([]map[string]string, 0, len(names))
	for _, n := range names {
		out = append(out, map[string]string{"name": n})
	}
	return out
}

func titleProp(text string) map[string]any {
	return map[string]any{
		"title": []map[string]any{
			{"text": map[string]string{"content": truncate(text)}},
		},
	}
}

func richTextProp(text string) map[string]any {
	return map[string]any{
		"rich_text": []map[string]any{
			{"text": map[string]string{"content": truncate(text)}},
		},
	}
}

// selectProp normalizes the value against the allowed options ignoring
// case, falling back to def when nothing matches.
func selectProp(value string, options []string, def string) map[string]any {
	name := def
	for _, opt := range options {
		if strings.EqualFold(strings.TrimSpace(value), opt) {
			name = opt
			break
		}
	}
	return map[string]any{"select": map[string]string{"name": name}}
}

func truncate(text string) string {
	if len(text) <= maxTextLength {
		return text
	}
	return text[:maxTextLength]
}
