// Package collector orchestrates one collection cycle: fetch, parse, detect,
// translate, filter, enrich, classify, score, persist, and alert.
package collector

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/newsscope/newswatch/internal/classify"
	"github.com/newsscope/newswatch/internal/confidence"
	"github.com/newsscope/newswatch/internal/feed"
	"github.com/newsscope/newswatch/internal/fetch"
	"github.com/newsscope/newswatch/internal/filter"
	"github.com/newsscope/newswatch/internal/language"
	"github.com/newsscope/newswatch/internal/models"
	"github.com/newsscope/newswatch/internal/nlp"
	"github.com/newsscope/newswatch/internal/region"
	"github.com/newsscope/newswatch/internal/relevance"
	"github.com/newsscope/newswatch/internal/sources"
	"github.com/newsscope/newswatch/internal/translate"
)

// languageOverrideConfidence is the bar for letting detection overrule the
// language a source declares for itself.
const languageOverrideConfidence = 0.85

// defaultWorkers bounds per-cycle item processing. Items are enriched in
// parallel so the sentiment batcher actually sees batches.
const defaultWorkers = 8

// Narrow store and stage interfaces so cycle tests can run on fakes.
type articleStore interface {
	Upsert(ctx context.Context, a *models.Article) (bool, error)
}

type runStore interface {
	Start(ctx context.Context, run *models.CollectionRun) error
	Finish(ctx context.Context, run *models.CollectionRun) error
}

type alertDispatcher interface {
	Dispatch(ctx context.Context, a *models.Article) (bool, error)
}

type translator interface {
	Enabled() bool
	Translate(ctx context.Context, text, srcLang string) (string, error)
}

type enricher interface {
	Analyze(ctx context.Context, text, lang string) (nlp.Sentiment, error)
}

// Collector wires the pipeline stages for one process.
type Collector struct {
	registry  *sources.Registry
	fetcher   *fetch.Fetcher
	scraper   *feed.Scraper
	translate translator
	enrich    enricher
	relevance *relevance.Classifier
	articles  articleStore
	runs      runStore
	alerts    alertDispatcher
	workers   int
	now       func() time.Time

	// mu guards the run counters while items are processed in parallel.
	mu sync.Mutex
}

// New builds a collector. runs and alerts may be nil; those stages are then
// skipped.
func New(
	registry *sources.Registry,
	fetcher *fetch.Fetcher,
	scraper *feed.Scraper,
	tr translator,
	en enricher,
	rel *relevance.Classifier,
	articles articleStore,
	runs runStore,
	alerts alertDispatcher,
) *Collector {
	return &Collector{
		registry:  registry,
		fetcher:   fetcher,
		scraper:   scraper,
		translate: tr,
		enrich:    en,
		relevance: rel,
		articles:  articles,
		runs:      runs,
		alerts:    alerts,
		workers:   defaultWorkers,
		now:       time.Now,
	}
}

// bump increments a cycle counter from a processing worker.
func (c *Collector) bump(n *int) {
	c.mu.Lock()
	*n++
	c.mu.Unlock()
}

// RunCycle executes one full collection cycle and returns its counters.
// Per-item failures are counted, logged, and never abort the cycle.
func (c *Collector) RunCycle(ctx context.Context) (*models.CollectionRun, error) {
	start := c.now()
	feeds := c.registry.Feeds()
	scraped := c.registry.Scraped()

	run := &models.CollectionRun{
		StartedAt:    start.UTC(),
		SourcesTotal: len(feeds) + len(scraped),
	}
	if c.runs != nil {
		if err := c.runs.Start(ctx, run); err != nil {
			slog.Warn("collector: record run start", "err", err)
		}
	}
	slog.Info("collector: cycle started", "feeds", len(feeds), "scrapers", len(scraped))

	ingestTime := start.UTC()
	var items []feed.RawItem

	for _, res := range c.fetcher.FetchAll(ctx, feeds) {
		if res.Err != nil {
			run.Errors++
			continue
		}
		run.Fetched++
		parsed, err := feed.ParseFeed(res.Payload, res.Source, ingestTime)
		if err != nil {
			slog.Warn("collector: parse failed", "source", res.Source.Name, "err", err)
			run.Errors++
			continue
		}
		items = append(items, parsed...)
	}

	for _, src := range scraped {
		if ctx.Err() != nil {
			break
		}
		scrapedItems, err := c.scraper.CollectFromSource(ctx, src, ingestTime)
		if err != nil {
			slog.Warn("collector: scrape failed", "source", src.Name, "err", err)
			run.Errors++
			continue
		}
		run.Fetched++
		items = append(items, scrapedItems...)
	}
	run.Parsed = len(items)

	// Items run on a bounded worker pool so enrichment requests overlap and
	// the sentiment batcher can group them.
	sem := make(chan struct{}, c.workers)
	var wg sync.WaitGroup
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(item feed.RawItem) {
			defer wg.Done()
			defer func() { <-sem }()
			c.processItem(ctx, item, run)
		}(item)
	}
	wg.Wait()

	if c.runs != nil {
		if err := c.runs.Finish(ctx, run); err != nil {
			slog.Warn("collector: record run finish", "err", err)
		}
	}
	slog.Info("collector: cycle finished",
		"parsed", run.Parsed, "rejected_early", run.RejectedEarly,
		"created", run.Created, "updated", run.Updated,
		"alerts", run.AlertsSent, "errors", run.Errors,
		"elapsed", c.now().Sub(start).Round(time.Millisecond))

	return run, ctx.Err()
}

// processItem runs one raw item through detection, translation, filtering,
// enrichment, classification, scoring, persistence, and alerting.
func (c *Collector) processItem(ctx context.Context, item feed.RawItem, run *models.CollectionRun) {
	// Texts below the detection minimum carry too little signal to enrich or
	// store; they are dropped outright.
	if len([]rune(strings.TrimSpace(item.Title+" "+item.Summary))) < language.MinDetectableRunes {
		slog.Debug("collector: text too short", "source", item.SourceName, "url", item.URL)
		c.bump(&run.RejectedEarly)
		return
	}

	det := language.Detect(item.Title + " " + item.Summary)

	lang := item.DeclaredLanguage
	if lang == "" {
		lang = "en"
	}
	if det.Code != "unknown" && det.Code != lang && det.Confidence > languageOverrideConfidence {
		slog.Debug("collector: language override",
			"source", item.SourceName, "declared", lang, "detected", det.Code)
		lang = det.Code
	}

	translatedTitle, translatedSummary := c.translateItem(ctx, item, lang)

	engTitle := translatedTitle
	if engTitle == "" {
		engTitle = item.Title
	}
	engSummary := translatedSummary
	if engSummary == "" {
		engSummary = item.Summary
	}

	// Filters and dictionaries see both the original and the translation.
	scanTitle := joinDistinct(item.Title, translatedTitle)
	scanSummary := joinDistinct(item.Summary, translatedSummary)

	if dec := filter.Check(scanTitle, scanSummary); dec.Reject {
		slog.Debug("collector: rejected early",
			"source", item.SourceName, "url", item.URL, "reason", dec.Reason)
		c.bump(&run.RejectedEarly)
		return
	}

	sentLang := lang
	if translatedTitle != "" {
		sentLang = "en"
	}
	sentiment, err := c.enrich.Analyze(ctx, strings.TrimSpace(engTitle+". "+engSummary), sentLang)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("collector: enrichment failed", "url", item.URL, "err", err)
		sentiment = nlp.Neutral()
	}
	c.bump(&run.Enriched)

	rel := c.relevance.Analyze(ctx, scanTitle, scanSummary, item.Content, lang)

	cat := classify.Categorize(scanTitle, scanSummary, item.Content, item.Trusted, len(rel.Schemes) > 0)

	reg := item.DeclaredRegion
	if reg == "" {
		reg = region.Detect(scanTitle, scanSummary, item.Content)
	}

	markers := filter.Scan(scanTitle, scanSummary)
	conf := confidence.Score(confidence.Input{
		KeywordCount:             len(rel.MatchedTerms),
		SchemeCount:              len(rel.Schemes),
		MinistryCount:            len(rel.Ministries),
		TrustedSource:            item.Trusted,
		IsGOI:                    rel.IsGOI,
		ClassifierConfidence:     cat.Confidence,
		Category:                 cat.Category,
		SentimentScore:           sentiment.Score,
		TitleLength:              len([]rune(item.Title)),
		DetectedLanguage:         det.Code,
		PublishedAt:              item.PublishedAt,
		HasExclusionKeywords:     markers.Exclusion,
		HasEntertainmentMarkers:  markers.Entertainment,
		HasTributeMarkers:        markers.Tribute,
		HasInternationalKeywords: markers.International,
	}, c.now())

	if !accept(item, rel, cat, conf, lang) {
		slog.Debug("collector: below acceptance bar",
			"url", item.URL, "category", cat.Category,
			"relevance", rel.Score, "confidence", conf.Score)
		return
	}

	article := c.buildArticle(item, det, lang, translatedTitle, translatedSummary, sentiment, rel, cat, reg)

	created, err := c.articles.Upsert(ctx, article)
	if err != nil {
		slog.Error("collector: store failed", "url", item.URL, "err", err)
		c.bump(&run.Errors)
		return
	}
	if created {
		c.bump(&run.Created)
	} else {
		c.bump(&run.Updated)
	}

	if c.alerts != nil {
		raised, err := c.alerts.Dispatch(ctx, article)
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("collector: alert dispatch failed", "article_id", article.ID, "err", err)
			c.bump(&run.Errors)
		}
		if raised {
			c.bump(&run.AlertsSent)
		}
	}
}

// translateItem translates title and summary to English when needed. A
// failed translation logs and falls back to the original text.
func (c *Collector) translateItem(ctx context.Context, item feed.RawItem, lang string) (string, string) {
	if lang == "en" || c.translate == nil || !c.translate.Enabled() {
		return "", ""
	}

	title, err := c.translate.Translate(ctx, item.Title, lang)
	if err != nil && !errors.Is(err, translate.ErrEmptyInput) {
		slog.Warn("collector: title translation failed, using original",
			"url", item.URL, "lang", lang, "err", err)
	}

	var summary string
	if item.Summary != "" {
		summary, err = c.translate.Translate(ctx, item.Summary, lang)
		if err != nil && !errors.Is(err, translate.ErrEmptyInput) {
			slog.Warn("collector: summary translation failed, using original",
				"url", item.URL, "lang", lang, "err", err)
		}
	}
	return title, summary
}

// accept applies the storage acceptance rule.
func accept(item feed.RawItem, rel relevance.Result, cat classify.Result, conf confidence.Result, lang string) bool {
	hasSchemes := len(rel.Schemes) > 0
	hasMinistries := len(rel.Ministries) > 0

	if item.Trusted && (hasSchemes || hasMinistries) {
		return true
	}
	if cat.Category == classify.CategoryGovernment && cat.ShouldShow &&
		(rel.Score >= 0.4 || conf.Score >= 0.7 || hasSchemes || hasMinistries) {
		return true
	}
	// Regional-language coverage gets a lower bar: translation and keyword
	// loss make the score unreliable there.
	if lang != "en" && (cat.Category == classify.CategoryGovernment || cat.ShouldShow || rel.IsGOI) {
		return true
	}
	return false
}

// buildArticle assembles the persisted row from the stage outputs.
func (c *Collector) buildArticle(
	item feed.RawItem,
	det language.Detection,
	lang, translatedTitle, translatedSummary string,
	sentiment nlp.Sentiment,
	rel relevance.Result,
	cat classify.Result,
	reg string,
) *models.Article {
	return &models.Article{
		URL:                 item.URL,
		Title:               item.Title,
		Summary:             item.Summary,
		Content:             item.Content,
		Source:              item.SourceName,
		SourceType:          item.SourceKind,
		Region:              reg,
		Language:            lang,
		DetectedLanguage:    det.Code,
		DetectedScript:      det.Script,
		LanguageConfidence:  det.Confidence,
		TranslatedTitle:     translatedTitle,
		TranslatedSummary:   translatedSummary,
		PublishedAt:         item.PublishedAt,
		CollectedAt:         c.now().UTC(),
		SentimentLabel:      sentiment.Label,
		SentimentScore:      sentiment.Score,
		SentimentPolarity:   sentiment.Polarity,
		// Topic tagging is off; the category lives in content_category.
		TopicLabels:         nil,
		Entities:            rel.Entities,
		Hash:                models.ArticleHash(item.URL, item.Title, item.PublishedAt),
		IsGOI:               rel.IsGOI,
		RelevanceScore:      rel.Score,
		GOIMinistries:       rel.Ministries,
		GOISchemes:          rel.Schemes,
		GOIEntities:         rel.Entities,
		GOIMatchedTerms:     rel.MatchedTerms,
		ContentCategory:     cat.Category,
		ContentSubCategory:  cat.SubCategory,
		ClassificationConf:  cat.Confidence,
		ClassificationWords: cat.Keywords,
		ShouldShowPIB:       cat.ShouldShow,
	}
}

// joinDistinct concatenates b after a unless b is empty or identical.
func joinDistinct(a, b string) string {
	if b == "" || b == a {
		return a
	}
	return a + " " + b
}
