// Package source aggregates URL discovery strategies behind one registry.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siddqamar/GMO-FactLens/internal/ports"
)

// Registry keeps a mapping from source names to their implementations.
type Registry struct {
	sources map[string]ports.URLSource
	order   []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]ports.URLSource{}}
}

// Register adds or replaces a URL source; registration order is preserved.
func (r *Registry) Register(src ports.URLSource) {
	if r.sources == nil {
		r.sources = map[string]ports.URLSource{}
	}
	if _, exists := r.sources[src.Name()]; !exists {
		r.order = append(r.order, src.Name())
	}
	r.sources[src.Name()] = src
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.URLSource, error) {
	if src, ok := r.sources[name]; ok {
		return src, nil
	}
	return nil, fmt.Errorf("url source %s is not registered", name)
}

// Composite queries every registered source in order and merges the URL
// lists: concatenated, de-duplicated, capped at maxResults. Per-source
// failures are reported and skipped, never fatal.
type Composite struct {
	registry *Registry
	logger   *slog.Logger
}

var _ ports.URLSource = (*Composite)(nil)

// NewComposite wires the registry with a component logger.
func NewComposite(reg *Registry, logger *slog.Logger) *Composite {
	return &Composite{registry: reg, logger: logger}
}

// Name identifies the aggregate inside progress reports.
func (c *Composite) Name() string { return "composite" }

// Discover fans the topic out across all registered sources sequentially.
func (c *Composite) Discover(ctx context.Context, topic string, maxResults int) ([]string, error) {
	if c.registry == nil {
		return nil, fmt.Errorf("source registry is not configured")
	}

	seen := map[string]struct{}{}
	var merged []string

	for _, name := range c.registry.order {
		src := c.registry.sources[name]
		urls, err := src.Discover(ctx, topic, maxResults)
		if err != nil {
			c.warn("source discovery failed", "source", name, "error", err)
			continue
		}
		c.debug("source produced urls", "source", name, "count", len(urls))

		for _, u := range urls {
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			merged = append(merged, u)
			if maxResults > 0 && len(merged) >= maxResults {
				return merged, nil
			}
		}
	}

	return merged, nil
}

// ValidateURLs keeps only entries with an accepted network-scheme prefix.
// Dropped entries are returned separately so callers can report them.
func ValidateURLs(urls []string) (valid, dropped []string) {
	for _, u := range urls {
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			valid = append(valid, u)
		} else {
			dropped = append(dropped, u)
		}
	}
	return valid, dropped
}

func (c *Composite) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Composite) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
