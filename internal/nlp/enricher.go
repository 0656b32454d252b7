package nlp

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/newsscope/newswatch/internal/cache"
	"github.com/newsscope/newswatch/internal/config"
)

// request is one queued text waiting for inference.
type request struct {
	text     string
	lang     string
	resultCh chan Sentiment
}

// Enricher batches sentiment requests so model backends see one bounded call
// at a time instead of one call per article. Results are cached.
type Enricher struct {
	enabled       bool
	router        *Router
	adjuster      *Adjuster
	cache         *cache.Cache
	batchSize     int
	flushInterval time.Duration
	queue         chan request

	// stop is closed by Stop; the queue itself is never closed so late
	// Analyze callers cannot panic on a send.
	stop     chan struct{}
	stopOnce sync.Once
}

// New builds an enricher from configuration. Call Start before Analyze.
func New(cfg config.NLPConfig, c *cache.Cache) *Enricher {
	indicURL := cfg.IndicModelURL
	if !cfg.IndicEnabled {
		indicURL = ""
	}
	return NewWithRouter(cfg, c, NewRouter(cfg.EnglishModelURL, indicURL, cfg.FallbackURL, cfg.MaxLength))
}

// NewWithRouter injects an explicit router, used by tests.
func NewWithRouter(cfg config.NLPConfig, c *cache.Cache, router *Router) *Enricher {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 500
	}
	flush := cfg.FlushInterval
	if flush <= 0 {
		flush = 250 * time.Millisecond
	}
	return &Enricher{
		enabled:       cfg.Enabled,
		router:        router,
		adjuster:      NewAdjuster(cfg.AdjusterEnabled, cfg.BoostThreshold),
		cache:         c,
		batchSize:     batchSize,
		flushInterval: flush,
		queue:         make(chan request, queueSize),
		stop:          make(chan struct{}),
	}
}

// Start launches the batching loop. It exits when ctx is cancelled or Stop is
// called, after draining requests already queued.
func (e *Enricher) Start(ctx context.Context) {
	go e.run(ctx)
}

// Stop signals shutdown; requests already queued are still answered and
// later Analyze calls return Neutral.
func (e *Enricher) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

// Neutral is the result used when enrichment is disabled or impossible.
func Neutral() Sentiment {
	return Sentiment{Label: LabelNeutral, Score: 0.5, OriginalLabel: LabelNeutral, OriginalScore: 0.5}
}

// Analyze queues text for inference and waits for the result. A full queue
// blocks the caller, which throttles the whole cycle rather than dropping
// work.
func (e *Enricher) Analyze(ctx context.Context, text, lang string) (Sentiment, error) {
	if !e.enabled {
		return Neutral(), nil
	}

	req := request{text: text, lang: lang, resultCh: make(chan Sentiment, 1)}
	select {
	case e.queue <- req:
	case <-e.stop:
		return Neutral(), nil
	case <-ctx.Done():
		return Neutral(), ctx.Err()
	}

	select {
	case s := <-req.resultCh:
		return s, nil
	case <-e.stop:
		// The drain may already have answered this request.
		select {
		case s := <-req.resultCh:
			return s, nil
		default:
			return Neutral(), nil
		}
	case <-ctx.Done():
		return Neutral(), ctx.Err()
	}
}

func (e *Enricher) run(ctx context.Context) {
	batch := make([]request, 0, e.batchSize)
	timer := time.NewTimer(e.flushInterval)
	defer timer.Stop()

	flush := func() {
		if len(batch) > 0 {
			e.process(ctx, batch)
			batch = batch[:0]
		}
		timer.Reset(e.flushInterval)
	}

	// drain answers what is already queued, then the loop stops.
	drain := func() {
		for {
			select {
			case req := <-e.queue:
				batch = append(batch, req)
			default:
				flush()
				return
			}
		}
	}

	for {
		select {
		case req := <-e.queue:
			batch = append(batch, req)
			if len(batch) >= e.batchSize {
				flush()
			}
		case <-timer.C:
			flush()
		case <-e.stop:
			drain()
			return
		case <-ctx.Done():
			drain()
			return
		}
	}
}

// process answers one batch: cache hits first, then one grouped model call
// per backend, keyword fallback when a backend fails.
func (e *Enricher) process(ctx context.Context, batch []request) {
	type pending struct {
		idx  int
		text string
	}
	byBackend := map[Classifier][]pending{}

	for i, req := range batch {
		if s, ok := e.cachedSentiment(ctx, req); ok {
			req.resultCh <- s
			batch[i].resultCh = nil
			continue
		}
		c := e.router.Route(req.lang)
		byBackend[c] = append(byBackend[c], pending{idx: i, text: req.text})
	}

	for backend, items := range byBackend {
		texts := make([]string, len(items))
		for i, it := range items {
			texts[i] = it.text
		}

		scores, err := backend.Classify(ctx, texts)
		if err != nil {
			slog.Warn("nlp: model call failed, using keyword fallback",
				"backend", backend.Name(), "batch", len(texts), "error", err)
			scores, _ = e.router.Fallback().Classify(ctx, texts)
		}

		for i, it := range items {
			req := batch[it.idx]
			if req.resultCh == nil {
				continue
			}
			label, score := Normalize(scores[i].Label, scores[i].Score)
			s := e.adjuster.Adjust(req.text, label, score)
			e.storeSentiment(ctx, req, s)
			req.resultCh <- s
		}
	}
}

func (e *Enricher) cachedSentiment(ctx context.Context, req request) (Sentiment, bool) {
	var s Sentiment
	if e.cache.GetJSON(ctx, cache.PrefixSentiment, req.text+"|"+req.lang, &s) {
		return s, true
	}
	return Sentiment{}, false
}

func (e *Enricher) storeSentiment(ctx context.Context, req request, s Sentiment) {
	e.cache.SetJSON(ctx, cache.PrefixSentiment, req.text+"|"+req.lang, s)
}
