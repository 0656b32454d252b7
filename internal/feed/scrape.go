package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/newsscope/newswatch/internal/sources"
)

const (
	// Per scraped source, per cycle: probe at most this many candidate links
	// and keep at most this many accepted articles.
	maxProbedCandidates  = 10
	maxAcceptedArticles  = 3
	minScrapedTitleChars = 10
	minScrapedTextChars  = 100
)

// reYearToken matches a year path segment like /2025/ or -2025- in article URLs.
var reYearToken = regexp.MustCompile(`(/|-)20\d{2}(/|-)`)

// articlePathHints are URL path fragments that suggest an article page.
var articlePathHints = []string{"/news/", "/article/", "/articleshow/", "/story/", "/samachar/"}

// excludedPathHints are URL fragments that are never article pages.
var excludedPathHints = []string{
	"login", "signin", "register", "search", "/tag/", "/tags/",
	"/category/", "/topics/", "mailto:", "javascript:", "/videos/",
	"/photos/", "/gallery/", "/live-", "#",
}

// titleSelectors and bodySelectors are tried in order on scraped article pages.
var (
	titleSelectors = []string{"h1", "h1.headline", ".article-title", "header h1"}
	bodySelectors  = []string{
		"article", ".article-body", ".story-content", ".articlebodycontent",
		".content-body", "div[itemprop='articleBody']", ".entry-content",
	}
)

// scrapedPage holds the extracted content from a single article page.
type scrapedPage struct {
	Title string
	Text  string
}

// Scraper fetches regional-language article pages that are not served over
// RSS. Each operation gets a fresh colly collector so no state leaks between
// sources.
type Scraper struct {
	userAgent string
	timeout   time.Duration
}

// NewScraper creates a Scraper with the given per-request timeout.
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		userAgent: "NewsWatch/1.0",
		timeout:   timeout,
	}
}

// newCollector creates a fresh colly collector with standard settings and rate
// limiting.
func (s *Scraper) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(s.userAgent),
		colly.AllowURLRevisit(),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	// Rate limit: 1 request per second per domain, 2 parallel requests.
	_ = c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 2,
		Delay:       1 * time.Second,
		RandomDelay: 500 * time.Millisecond,
	})

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-IN,en;q=0.9,hi;q=0.8")
	})

	return c
}

// CollectFromSource scrapes a configured listing page: it discovers candidate
// article links, probes up to maxProbedCandidates of them, and returns up to
// maxAcceptedArticles raw items that pass the minimum title and body length
// checks.
func (s *Scraper) CollectFromSource(ctx context.Context, src sources.SourceConfig, ingestTime time.Time) ([]RawItem, error) {
	links, err := s.scrapeLinks(ctx, src.URL)
	if err != nil {
		return nil, fmt.Errorf("feed: scrape links %s: %w", src.Name, err)
	}

	candidates := filterCandidates(src.URL, links)
	if len(candidates) > maxProbedCandidates {
		candidates = candidates[:maxProbedCandidates]
	}

	var items []RawItem
	for _, link := range candidates {
		if len(items) >= maxAcceptedArticles {
			break
		}
		if ctx.Err() != nil {
			return items, ctx.Err()
		}

		page, err := s.scrapeArticle(ctx, link)
		if err != nil {
			slog.Debug("feed: candidate scrape failed", "url", link, "err", err)
			continue
		}
		if len([]rune(page.Title)) < minScrapedTitleChars || len([]rune(page.Text)) < minScrapedTextChars {
			slog.Debug("feed: candidate too thin", "url", link,
				"title_len", len(page.Title), "text_len", len(page.Text))
			continue
		}

		items = append(items, RawItem{
			URL:              CanonicalizeURL(link),
			Title:            page.Title,
			Summary:          Truncate(page.Text, 300),
			Content:          page.Text,
			SourceName:       src.Name,
			SourceKind:       sources.KindScraper,
			DeclaredLanguage: src.Language,
			DeclaredRegion:   src.Region,
			Trusted:          src.Trusted,
			PublishedAt:      ingestTime,
		})
	}

	slog.Info("feed: scraped source", "source", src.Name,
		"links", len(links), "probed", len(candidates), "accepted", len(items))
	return items, nil
}

// filterCandidates keeps same-host links whose URL shape looks like an article
// page and drops known non-article patterns.
func filterCandidates(listURL string, links []string) []string {
	base, err := url.Parse(listURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool, len(links))
	var out []string
	for _, l := range links {
		if seen[l] {
			continue
		}
		seen[l] = true

		parsed, err := url.Parse(l)
		if err != nil || parsed.Host == "" {
			continue
		}
		if !strings.EqualFold(parsed.Host, base.Host) {
			continue
		}
		if !looksLikeArticleURL(parsed.Path) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func looksLikeArticleURL(path string) bool {
	lower := strings.ToLower(path)
	for _, bad := range excludedPathHints {
		if strings.Contains(lower, bad) {
			return false
		}
	}
	for _, hint := range articlePathHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return reYearToken.MatchString(lower)
}

// scrapeLinks fetches a listing page and extracts all anchor hrefs as absolute
// URLs.
func (s *Scraper) scrapeLinks(ctx context.Context, listURL string) ([]string, error) {
	c := s.newCollector()

	base, err := url.Parse(listURL)
	if err != nil {
		return nil, fmt.Errorf("parse list URL: %w", err)
	}

	var (
		links  []string
		mu     sync.Mutex
		scrErr error
	)

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := strings.TrimSpace(e.Attr("href"))
		if href == "" {
			return
		}

		parsed, err := url.Parse(href)
		if err != nil {
			return
		}
		absolute := base.ResolveReference(parsed).String()

		mu.Lock()
		links = append(links, absolute)
		mu.Unlock()
	})

	c.OnError(func(r *colly.Response, err error) {
		mu.Lock()
		scrErr = fmt.Errorf("fetch %s: %w", listURL, err)
		mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := c.Visit(listURL); err != nil {
			mu.Lock()
			if scrErr == nil {
				scrErr = fmt.Errorf("visit %s: %w", listURL, err)
			}
			mu.Unlock()
		}
		c.Wait()
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}

	if scrErr != nil {
		return nil, scrErr
	}
	return links, nil
}

// scrapeArticle fetches one article page and extracts its title and body text
// using a list of selector fallbacks.
func (s *Scraper) scrapeArticle(ctx context.Context, articleURL string) (*scrapedPage, error) {
	c := s.newCollector()

	var (
		page    scrapedPage
		rawHTML string
		mu      sync.Mutex
		scrErr  error
	)

	c.OnResponse(func(r *colly.Response) {
		mu.Lock()
		rawHTML = string(r.Body)
		mu.Unlock()
	})

	for _, sel := range titleSelectors {
		c.OnHTML(sel, func(e *colly.HTMLElement) {
			mu.Lock()
			if page.Title == "" {
				page.Title = strings.TrimSpace(e.Text)
			}
			mu.Unlock()
		})
	}

	for _, sel := range bodySelectors {
		c.OnHTML(sel, func(e *colly.HTMLElement) {
			mu.Lock()
			text := strings.TrimSpace(e.Text)
			if text != "" && page.Text == "" {
				page.Text = reWhitespace.ReplaceAllString(text, " ")
			}
			mu.Unlock()
		})
	}

	c.OnError(func(r *colly.Response, err error) {
		mu.Lock()
		scrErr = fmt.Errorf("fetch %s: %w", articleURL, err)
		mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := c.Visit(articleURL); err != nil {
			mu.Lock()
			if scrErr == nil {
				scrErr = fmt.Errorf("visit %s: %w", articleURL, err)
			}
			mu.Unlock()
		}
		c.Wait()
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}

	if scrErr != nil {
		return nil, scrErr
	}

	// Fall back to the <title> tag if no selector matched.
	if page.Title == "" && rawHTML != "" {
		page.Title = extractHTMLTitle(rawHTML)
	}

	return &page, nil
}

// extractHTMLTitle performs a simple extraction of the <title> tag from raw HTML.
func extractHTMLTitle(html string) string {
	lower := strings.ToLower(html)
	start := strings.Index(lower, "<title")
	if start == -1 {
		return ""
	}
	tagEnd := strings.Index(html[start:], ">")
	if tagEnd == -1 {
		return ""
	}
	contentStart := start + tagEnd + 1
	end := strings.Index(lower[contentStart:], "</title>")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(html[contentStart : contentStart+end])
}
