package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsscope/newswatch/internal/classify"
	"github.com/newsscope/newswatch/internal/confidence"
	"github.com/newsscope/newswatch/internal/feed"
	"github.com/newsscope/newswatch/internal/fetch"
	"github.com/newsscope/newswatch/internal/models"
	"github.com/newsscope/newswatch/internal/nlp"
	"github.com/newsscope/newswatch/internal/relevance"
	"github.com/newsscope/newswatch/internal/sources"
)

type fakeArticles struct {
	mu      sync.Mutex
	upserts []*models.Article
	err     error
}

func (f *fakeArticles) Upsert(ctx context.Context, a *models.Article) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	f.upserts = append(f.upserts, a)
	f.mu.Unlock()
	return true, nil
}

type fakeRuns struct {
	started  int
	finished *models.CollectionRun
}

func (f *fakeRuns) Start(ctx context.Context, run *models.CollectionRun) error {
	f.started++
	return nil
}

func (f *fakeRuns) Finish(ctx context.Context, run *models.CollectionRun) error {
	f.finished = run
	return nil
}

type fakeAlerts struct {
	mu         sync.Mutex
	dispatched []*models.Article
	raise      bool
}

func (f *fakeAlerts) Dispatch(ctx context.Context, a *models.Article) (bool, error) {
	f.mu.Lock()
	f.dispatched = append(f.dispatched, a)
	f.mu.Unlock()
	return f.raise, nil
}

type fakeTranslator struct {
	enabled bool
	out     map[string]string
}

func (f *fakeTranslator) Enabled() bool { return f.enabled }

func (f *fakeTranslator) Translate(ctx context.Context, text, srcLang string) (string, error) {
	if out, ok := f.out[text]; ok {
		return out, nil
	}
	return "", nil
}

type fakeEnricher struct {
	mu        sync.Mutex
	sentiment nlp.Sentiment
	calls     int
}

func (f *fakeEnricher) Analyze(ctx context.Context, text, lang string) (nlp.Sentiment, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.sentiment, nil
}

func (f *fakeEnricher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// rendezvousEnricher only answers once two Analyze calls are in flight at the
// same time, proving items overlap inside a cycle.
type rendezvousEnricher struct {
	mu       sync.Mutex
	inFlight int
	release  chan struct{}
	once     sync.Once
}

func newRendezvousEnricher() *rendezvousEnricher {
	return &rendezvousEnricher{release: make(chan struct{})}
}

func (r *rendezvousEnricher) Analyze(ctx context.Context, text, lang string) (nlp.Sentiment, error) {
	r.mu.Lock()
	r.inFlight++
	if r.inFlight >= 2 {
		r.once.Do(func() { close(r.release) })
	}
	r.mu.Unlock()

	select {
	case <-r.release:
		return nlp.Sentiment{Label: "neutral", Score: 0.5}, nil
	case <-time.After(3 * time.Second):
		return nlp.Sentiment{}, errors.New("no concurrent peer arrived")
	}
}

func (r *rendezvousEnricher) met() bool {
	select {
	case <-r.release:
		return true
	default:
		return false
	}
}

const govRSS = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>PIB English</title>
<item>
  <title>Cabinet approves Ayushman Bharat expansion to ten crore families</title>
  <link>https://news.example.in/ayushman-expansion</link>
  <description>Ministry of Health announces wider yojana coverage in Bihar</description>
  <pubDate>Mon, 02 Jun 2025 08:00:00 GMT</pubDate>
</item>
<item>
  <title>Bollywood actor praises new film release at box office event</title>
  <link>https://news.example.in/film-release</link>
  <description>Celebrity gala draws crowds</description>
  <pubDate>Mon, 02 Jun 2025 09:00:00 GMT</pubDate>
</item>
</channel></rss>`

func writeSourceFiles(t *testing.T, feedURL string) *sources.Registry {
	t.Helper()
	dir := t.TempDir()

	feeds := filepath.Join(dir, "feeds.yaml")
	content := "feeds:\n  - name: PIB English\n    url: " + feedURL + "\n    language: en\n    trusted: true\n"
	require.NoError(t, os.WriteFile(feeds, []byte(content), 0o644))

	reg, err := sources.Load(feeds, filepath.Join(dir, "absent-scrapers.yaml"))
	require.NoError(t, err)
	return reg
}

func newTestCollector(t *testing.T, feedURL string) (*Collector, *fakeArticles, *fakeRuns, *fakeAlerts) {
	t.Helper()
	articles := &fakeArticles{}
	runs := &fakeRuns{}
	alerts := &fakeAlerts{}

	c := New(
		writeSourceFiles(t, feedURL),
		fetch.New(2, 5*time.Second, nil),
		feed.NewScraper(5*time.Second),
		&fakeTranslator{},
		&fakeEnricher{sentiment: nlp.Sentiment{Label: "neutral", Score: 0.5}},
		relevance.New(nil),
		articles,
		runs,
		alerts,
	)
	c.now = func() time.Time { return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC) }
	return c, articles, runs, alerts
}

func TestRunCycleEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(govRSS))
	}))
	defer srv.Close()

	c, articles, runs, _ := newTestCollector(t, srv.URL)

	run, err := c.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, runs.started)
	require.NotNil(t, runs.finished)
	assert.Equal(t, 1, run.SourcesTotal)
	assert.Equal(t, 1, run.Fetched)
	assert.Equal(t, 2, run.Parsed)
	assert.Equal(t, 1, run.RejectedEarly, "the entertainment item is dropped early")

	require.Len(t, articles.upserts, 1)
	a := articles.upserts[0]
	assert.Equal(t, "https://news.example.in/ayushman-expansion", a.URL)
	assert.Equal(t, "Government", a.ContentCategory)
	assert.True(t, a.ShouldShowPIB)
	assert.True(t, a.IsGOI)
	assert.Contains(t, a.GOISchemes, "Ayushman Bharat")
	assert.Equal(t, "Bihar", a.Region)
	assert.Equal(t, "PIB English", a.Source)
	assert.NotEmpty(t, a.Hash)
	assert.Empty(t, a.TopicLabels, "no topic tagger ran, so no topic labels")
	assert.Equal(t, 1, run.Created)
}

func TestRunCycleProcessesItemsConcurrently(t *testing.T) {
	const twoGovRSS = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>PIB English</title>
<item>
  <title>Cabinet approves Ayushman Bharat expansion to ten crore families</title>
  <link>https://news.example.in/ayushman-expansion</link>
  <description>Ministry of Health announces wider yojana coverage</description>
  <pubDate>Mon, 02 Jun 2025 08:00:00 GMT</pubDate>
</item>
<item>
  <title>Ministry of Finance reviews PM Kisan installment disbursal for farmers</title>
  <link>https://news.example.in/pm-kisan-review</link>
  <description>Scheme payments to be credited before the sowing season</description>
  <pubDate>Mon, 02 Jun 2025 09:00:00 GMT</pubDate>
</item>
</channel></rss>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(twoGovRSS))
	}))
	defer srv.Close()

	c, articles, _, _ := newTestCollector(t, srv.URL)
	enricher := newRendezvousEnricher()
	c.enrich = enricher

	run, err := c.RunCycle(context.Background())
	require.NoError(t, err)

	assert.True(t, enricher.met(), "two enrichment calls must overlap within one cycle")
	assert.Equal(t, 2, run.Enriched)
	assert.Len(t, articles.upserts, 2)
}

func TestProcessItemShortTextIsDropped(t *testing.T) {
	c, articles, _, _ := newTestCollector(t, "http://unused.invalid")
	enricher := &fakeEnricher{sentiment: nlp.Sentiment{Label: "neutral", Score: 0.5}}
	c.enrich = enricher

	run := &models.CollectionRun{}
	c.processItem(context.Background(), feed.RawItem{
		URL:              "https://news.example.in/stub",
		Title:            "योजना",
		SourceName:       "Dainik Example",
		SourceKind:       "rss",
		DeclaredLanguage: "hi",
		PublishedAt:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}, run)

	assert.Empty(t, articles.upserts, "a five-rune title carries no usable signal")
	assert.Equal(t, 1, run.RejectedEarly)
	assert.Zero(t, enricher.callCount(), "short texts must not reach the model")
}

func TestRunCycleFetchFailureIsCounted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, articles, _, _ := newTestCollector(t, srv.URL)

	run, err := c.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, run.Fetched)
	assert.Equal(t, 1, run.Errors)
	assert.Empty(t, articles.upserts)
}

func TestProcessItemIrrelevantIsNotStored(t *testing.T) {
	c, articles, _, _ := newTestCollector(t, "http://unused.invalid")

	run := &models.CollectionRun{}
	c.processItem(context.Background(), feed.RawItem{
		URL:              "https://news.example.in/cafe",
		Title:            "Local cafe opens a quiet second branch downtown",
		Summary:          "No schemes or ministries involved in this opening",
		SourceName:       "Example News",
		SourceKind:       "rss",
		DeclaredLanguage: "en",
		PublishedAt:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}, run)

	assert.Empty(t, articles.upserts)
	assert.Zero(t, run.RejectedEarly, "irrelevant is not the same as early-rejected")
}

func TestProcessItemLanguageOverride(t *testing.T) {
	c, articles, _, _ := newTestCollector(t, "http://unused.invalid")
	c.translate = &fakeTranslator{
		enabled: true,
		out: map[string]string{
			"मनरेगा मजदूरी भुगतान में देरी से मजदूर परेशान": "Workers troubled by MGNREGA wage payment delays",
		},
	}

	run := &models.CollectionRun{}
	c.processItem(context.Background(), feed.RawItem{
		URL:              "https://news.example.in/mnrega-delay",
		Title:            "मनरेगा मजदूरी भुगतान में देरी से मजदूर परेशान",
		SourceName:       "Dainik Example",
		SourceKind:       "rss",
		DeclaredLanguage: "en", // wrong declaration, detection overrides
		PublishedAt:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}, run)

	require.Len(t, articles.upserts, 1)
	a := articles.upserts[0]
	assert.Equal(t, "hi", a.Language)
	assert.Equal(t, "hi", a.DetectedLanguage)
	assert.Equal(t, "Workers troubled by MGNREGA wage payment delays", a.TranslatedTitle)
	assert.Contains(t, a.GOISchemes, "MGNREGA")
}

func TestProcessItemAlertDispatched(t *testing.T) {
	c, _, _, alerts := newTestCollector(t, "http://unused.invalid")
	alerts.raise = true
	c.enrich = &fakeEnricher{sentiment: nlp.Sentiment{Label: "negative", Score: 0.8, Polarity: -0.8}}

	run := &models.CollectionRun{}
	c.processItem(context.Background(), feed.RawItem{
		URL:              "https://news.example.in/ayushman-fraud",
		Title:            "Complaint over Ayushman Bharat empanelment delays in ministry review",
		Summary:          "Ministry of Health seeks report on grievance",
		SourceName:       "Example News",
		SourceKind:       "rss",
		DeclaredLanguage: "en",
		Trusted:          true,
		PublishedAt:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}, run)

	require.Len(t, alerts.dispatched, 1)
	assert.Equal(t, 1, run.AlertsSent)
	assert.Equal(t, "negative", alerts.dispatched[0].SentimentLabel)
}

func TestAcceptRules(t *testing.T) {
	other := classify.Result{Category: classify.CategoryOther}
	gov := classify.Result{Category: classify.CategoryGovernment, ShouldShow: true}
	lowConf := confidence.Result{Score: 0.1}

	// Trusted source with a scheme is always stored.
	trusted := feed.RawItem{Trusted: true}
	assert.True(t, accept(trusted, relevance.Result{Schemes: []string{"PM Kisan"}}, other, lowConf, "en"))
	assert.False(t, accept(trusted, relevance.Result{}, other, lowConf, "en"))

	// Government category needs one of the supporting signals.
	plain := feed.RawItem{}
	assert.True(t, accept(plain, relevance.Result{Score: 0.5}, gov, lowConf, "en"))
	assert.True(t, accept(plain, relevance.Result{}, gov, confidence.Result{Score: 0.75}, "en"))
	assert.True(t, accept(plain, relevance.Result{Ministries: []string{"ministry of finance"}}, gov, lowConf, "en"))
	assert.False(t, accept(plain, relevance.Result{Score: 0.1}, gov, lowConf, "en"))

	// Regional-language exception lowers the bar.
	assert.True(t, accept(plain, relevance.Result{IsGOI: true}, other, lowConf, "hi"))
	assert.False(t, accept(plain, relevance.Result{IsGOI: true}, other, lowConf, "en"))
}
