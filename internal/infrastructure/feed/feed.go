// Package feed discovers candidate URLs from configured RSS feeds.
package feed

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/siddqamar/GMO-FactLens/internal/config"
	"github.com/siddqamar/GMO-FactLens/internal/ports"
)

// Source scans configured feeds and keeps item links whose title or
// description mentions the topic. It supplements web search; per-feed
// failures are reported and skipped.
type Source struct {
	feeds  []config.FeedConfig
	parser *gofeed.Parser
	logger *slog.Logger
}

var _ ports.URLSource = (*Source)(nil)

// NewSource wires the configured feed list.
func NewSource(feeds []config.FeedConfig, logger *slog.Logger) *Source {
	return &Source{
		feeds:  feeds,
		parser: gofeed.NewParser(),
		logger: logger,
	}
}

// Name identifies the strategy inside the registry.
func (s *Source) Name() string { return "feeds" }

// Discover parses each feed and returns topic-matching item links.
func (s *Source) Discover(ctx context.Context, topic string, maxResults int) ([]string, error) {
	needle := strings.ToLower(strings.TrimSpace(topic))

	var urls []string
	for _, fc := range s.feeds {
		parsed, err := s.parser.ParseURLWithContext(fc.URL, ctx)
		if err != nil {
			s.warn("feed parse failed", "feed", fc.Name, "error", err)
			continue
		}

		for _, item := range parsed.Items {
			if item.Link == "" || !matchesTopic(item, needle) {
				continue
			}
			urls = append(urls, item.Link)
			if maxResults > 0 && len(urls) >= maxResults {
				return urls, nil
			}
		}
	}

	return urls, nil
}

func matchesTopic(item *gofeed.Item, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Title), needle) ||
		strings.Contains(strings.ToLower(item.Description), needle)
}

func (s *Source) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
