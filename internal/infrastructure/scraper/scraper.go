// Package scraper downloads pages and extracts cleaned article text.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/siddqamar/GMO-FactLens/internal/domain"
	"github.com/siddqamar/GMO-FactLens/internal/ports"
)

const (
	// minContentLength rejects pages whose cleaned text is too short to
	// be a usable article.
	minContentLength = 100
	defaultMaxLength = 5000
)

var titleCaser = cases.Title(language.English)

// Scraper implements ports.PageScraper on top of goquery.
type Scraper struct {
	client    *http.Client
	maxLength int
}

var _ ports.PageScraper = (*Scraper)(nil)

// New wires an HTTP client; maxLength caps cleaned content (default 5000).
func New(client *http.Client, maxLength int) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if maxLength <= 0 {
		maxLength = defaultMaxLength
	}
	return &Scraper{client: client, maxLength: maxLength}
}

// Metadata is the best-effort page header information.
type Metadata struct {
	Title       string
	Description string
	Author      string
	Date        string
}

// Scrape downloads the page, extracts and cleans body text, and resolves a
// non-empty title. Cleaned text under 100 characters is reported as an
// error so the caller can drop the URL.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (domain.ScrapedArticle, error) {
	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return domain.ScrapedArticle{}, err
	}

	content := cleanContent(extractText(doc), s.maxLength)
	if content == "" {
		return domain.ScrapedArticle{}, fmt.Errorf("no usable content at %s", pageURL)
	}

	meta := extractMetadata(doc)
	title := meta.Title
	if title == "" {
		title = TitleFromURL(pageURL)
	}

	return domain.ScrapedArticle{
		URL:     pageURL,
		Title:   title,
		Content: content,
	}, nil
}

func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "GMO-FactLens/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape %s: server returned %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func extractText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, nav, header, footer, aside").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text()
	}
	return body.Text()
}

// cleanContent collapses whitespace, drops too-short text, and truncates
// overlong text with a trailing ellipsis marker.
func cleanContent(text string, maxLength int) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	if len(cleaned) < minContentLength {
		return ""
	}
	if len(cleaned) > maxLength {
		cleaned = cleaned[:maxLength] + "..."
	}
	return cleaned
}

func extractMetadata(doc *goquery.Document) Metadata {
	meta := Metadata{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: metaContent(doc, `meta[name="description"]`),
		Author:      metaContent(doc, `meta[name="author"]`),
		Date:        metaContent(doc, `meta[property="article:published_time"]`),
	}
	if meta.Title == "" {
		meta.Title = metaContent(doc, `meta[property="og:title"]`)
	}
	return meta
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// TitleFromURL derives a readable title from the last URL path segment
// (hyphens/underscores become spaces, title-cased), falling back to the
// domain name with a leading "www." stripped.
func TitleFromURL(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "Untitled"
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	last := segments[len(segments)-1]
	if last != "" && !strings.Contains(last, ".") {
		last = strings.NewReplacer("-", " ", "_", " ").Replace(last)
		return titleCaser.String(last)
	}

	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	if host == "" {
		return "Untitled"
	}
	return titleCaser.String(host)
}
