// Package sources loads and serves the configured news sources: RSS feeds and
// scraped regional sites.
package sources

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	KindRSS     = "rss"
	KindScraper = "scraper"
)

// SourceConfig describes one configured feed or scraped site.
type SourceConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Kind     string `yaml:"-"`
	Language string `yaml:"language"`
	Script   string `yaml:"script,omitempty"`
	Region   string `yaml:"region,omitempty"`
	Trusted  bool   `yaml:"trusted,omitempty"`
}

// feedsFile is the on-disk shape of the feeds list.
type feedsFile struct {
	Feeds []SourceConfig `yaml:"feeds"`
}

// scrapersFile is the on-disk shape of the scraped-sources list.
type scrapersFile struct {
	Sources []SourceConfig `yaml:"sources"`
}

// Registry holds the loaded source lists. Reload swaps both lists atomically;
// readers always see a consistent snapshot.
type Registry struct {
	feedsPath    string
	scrapersPath string

	mu      sync.RWMutex
	feeds   []SourceConfig
	scraped []SourceConfig
}

// Load reads both source files and returns a populated registry. A missing
// feeds file is a startup error; the scraped-sources file is optional.
func Load(feedsPath, scrapersPath string) (*Registry, error) {
	r := &Registry{feedsPath: feedsPath, scrapersPath: scrapersPath}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads both source files. Malformed entries are logged and skipped;
// a missing feeds file is an error.
func (r *Registry) Reload() error {
	data, err := os.ReadFile(r.feedsPath)
	if err != nil {
		return fmt.Errorf("sources: read feeds file: %w", err)
	}

	var ff feedsFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return fmt.Errorf("sources: parse feeds file: %w", err)
	}
	feeds := validate(ff.Feeds, KindRSS)

	var scraped []SourceConfig
	if r.scrapersPath != "" {
		data, err := os.ReadFile(r.scrapersPath)
		switch {
		case os.IsNotExist(err):
			slog.Info("sources: no scraping sources file, scraping disabled", "path", r.scrapersPath)
		case err != nil:
			return fmt.Errorf("sources: read scraping sources file: %w", err)
		default:
			var sf scrapersFile
			if err := yaml.Unmarshal(data, &sf); err != nil {
				return fmt.Errorf("sources: parse scraping sources file: %w", err)
			}
			scraped = validate(sf.Sources, KindScraper)
		}
	}

	r.mu.Lock()
	r.feeds = feeds
	r.scraped = scraped
	r.mu.Unlock()

	slog.Info("sources: loaded", "feeds", len(feeds), "scraped", len(scraped))
	return nil
}

// validate drops entries with missing required fields and fills defaults.
func validate(in []SourceConfig, kind string) []SourceConfig {
	out := make([]SourceConfig, 0, len(in))
	for _, s := range in {
		s.Name = strings.TrimSpace(s.Name)
		s.URL = strings.TrimSpace(s.URL)
		if s.Name == "" || s.URL == "" {
			slog.Warn("sources: skipping entry with missing name or url", "name", s.Name, "url", s.URL)
			continue
		}
		if s.Language == "" {
			s.Language = "en"
		}
		s.Kind = kind
		out = append(out, s)
	}
	return out
}

// Feeds returns the configured RSS feed sources.
func (r *Registry) Feeds() []SourceConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]SourceConfig(nil), r.feeds...)
}

// Scraped returns the configured scraped sources.
func (r *Registry) Scraped() []SourceConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]SourceConfig(nil), r.scraped...)
}

// All returns every configured source, feeds first.
func (r *Registry) All() []SourceConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]SourceConfig, 0, len(r.feeds)+len(r.scraped))
	all = append(all, r.feeds...)
	all = append(all, r.scraped...)
	return all
}
