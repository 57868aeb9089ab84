// Package search implements URL discovery via the SerperAPI web search.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/siddqamar/GMO-FactLens/internal/config"
	"github.com/siddqamar/GMO-FactLens/internal/ports"
)

// SerperSource queries the Serper search API and returns organic links.
type SerperSource struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.URLSource = (*SerperSource)(nil)

// NewSerperSource builds a client from configuration.
func NewSerperSource(cfg config.SearchConfig, logger *slog.Logger) *SerperSource {
	return &SerperSource{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// Name identifies the strategy inside the registry.
func (s *SerperSource) Name() string { return "serper" }

// Discover requests up to maxResults organic results for the topic and
// extracts their link fields. A missing API key or any transport or
// decoding failure yields an empty list with a logged report; the search
// stage never aborts a run.
func (s *SerperSource) Discover(ctx context.Context, topic string, maxResults int) ([]string, error) {
	if s.apiKey == "" {
		s.warn("serper api key is not configured, skipping web search")
		return nil, nil
	}

	body, err := json.Marshal(map[string]any{
		"q":   topic,
		"num": maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.warn("search request failed", "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		s.warn("search returned non-ok status",
			"status", resp.Status, "body", strings.TrimSpace(string(payload)))
		return nil, nil
	}

	var decoded struct {
		Organic []struct {
			Link string `json:"link"`
		} `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		s.warn("search response is malformed", "error", err)
		return nil, nil
	}

	urls := make([]string, 0, len(decoded.Organic))
	for _, result := range decoded.Organic {
		if maxResults > 0 && len(urls) >= maxResults {
			break
		}
		if result.Link != "" {
			urls = append(urls, result.Link)
		}
	}

	s.debug("search complete", "topic", topic, "urls", len(urls))
	return urls, nil
}

func (s *SerperSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *SerperSource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
