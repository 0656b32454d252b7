package nlp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsscope/newswatch/internal/cache"
	"github.com/newsscope/newswatch/internal/config"
)

// fakeClassifier records batch sizes and answers a fixed score per text.
type fakeClassifier struct {
	mu      sync.Mutex
	name    string
	label   string
	score   float64
	err     error
	batches []int
}

func (f *fakeClassifier) Name() string { return f.name }

func (f *fakeClassifier) Classify(ctx context.Context, texts []string) ([]Score, error) {
	f.mu.Lock()
	f.batches = append(f.batches, len(texts))
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]Score, len(texts))
	for i := range texts {
		out[i] = Score{Label: f.label, Score: f.score}
	}
	return out, nil
}

func (f *fakeClassifier) batchSizes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.batches...)
}

func testNLPConfig() config.NLPConfig {
	return config.NLPConfig{
		Enabled:         true,
		AdjusterEnabled: false,
		BatchSize:       2,
		QueueSize:       16,
		FlushInterval:   20 * time.Millisecond,
	}
}

func testEnricherCache(t *testing.T) *cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return cache.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestRouterRouting(t *testing.T) {
	english := &fakeClassifier{name: "english"}
	indic := &fakeClassifier{name: "indic"}
	multi := &fakeClassifier{name: "multilingual"}
	r := NewRouterWithClassifiers(english, indic, multi)

	assert.Equal(t, "english", r.Route("en").Name())
	assert.Equal(t, "indic", r.Route("hi").Name())
	assert.Equal(t, "indic", r.Route("ta").Name())
	assert.Equal(t, "multilingual", r.Route("fr").Name())

	// No backends at all: keyword rules carry the load.
	bare := NewRouterWithClassifiers(nil, nil, nil)
	assert.Equal(t, "rule", bare.Route("en").Name())
}

func TestEnricherDisabled(t *testing.T) {
	cfg := testNLPConfig()
	cfg.Enabled = false
	e := NewWithRouter(cfg, nil, NewRouterWithClassifiers(nil, nil, nil))

	s, err := e.Analyze(context.Background(), "anything", "en")
	require.NoError(t, err)
	assert.Equal(t, Neutral(), s)
}

func TestEnricherAnalyze(t *testing.T) {
	english := &fakeClassifier{name: "english", label: "positive", score: 0.9}
	e := NewWithRouter(testNLPConfig(), testEnricherCache(t), NewRouterWithClassifiers(english, nil, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	e.Start(ctx)
	defer e.Stop()

	s, err := e.Analyze(ctx, "scheme launch covers ten lakh households", "en")
	require.NoError(t, err)
	assert.Equal(t, "positive", s.Label)
	assert.InDelta(t, 0.9, s.Score, 1e-9)
	assert.InDelta(t, 0.9, s.Polarity, 1e-9)
}

func TestEnricherBatchesUpToSize(t *testing.T) {
	english := &fakeClassifier{name: "english", label: "neutral", score: 0.5}
	e := NewWithRouter(testNLPConfig(), testEnricherCache(t), NewRouterWithClassifiers(english, nil, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	e.Start(ctx)
	defer e.Stop()

	var wg sync.WaitGroup
	texts := []string{"first story", "second story", "third story", "fourth story"}
	for _, text := range texts {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			_, err := e.Analyze(ctx, text, "en")
			assert.NoError(t, err)
		}(text)
	}
	wg.Wait()

	total := 0
	for _, n := range english.batchSizes() {
		assert.LessOrEqual(t, n, 2, "batch must not exceed the configured size")
		total += n
	}
	assert.Equal(t, len(texts), total)
}

func TestEnricherModelFailureFallsBackToRules(t *testing.T) {
	english := &fakeClassifier{name: "english", err: errors.New("model down")}
	e := NewWithRouter(testNLPConfig(), testEnricherCache(t), NewRouterWithClassifiers(english, nil, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	e.Start(ctx)
	defer e.Stop()

	s, err := e.Analyze(ctx, "major scam and corruption in wage payments", "en")
	require.NoError(t, err)
	assert.Equal(t, "negative", s.Label, "keyword fallback must still classify")
}

func TestEnricherCachesResults(t *testing.T) {
	english := &fakeClassifier{name: "english", label: "positive", score: 0.9}
	e := NewWithRouter(testNLPConfig(), testEnricherCache(t), NewRouterWithClassifiers(english, nil, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	e.Start(ctx)
	defer e.Stop()

	text := "ujjwala connections cross nine crore"
	_, err := e.Analyze(ctx, text, "en")
	require.NoError(t, err)
	s, err := e.Analyze(ctx, text, "en")
	require.NoError(t, err)

	assert.Equal(t, "positive", s.Label)
	assert.Len(t, english.batchSizes(), 1, "second call must be served from cache")
}

func TestEnricherStopSafeForLateAnalyze(t *testing.T) {
	english := &fakeClassifier{name: "english", label: "positive", score: 0.9}
	e := NewWithRouter(testNLPConfig(), nil, NewRouterWithClassifiers(english, nil, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	e.Start(ctx)

	e.Stop()
	e.Stop() // idempotent

	// An Analyze call racing past shutdown must degrade, not panic on a send.
	s, err := e.Analyze(ctx, "late arrival after shutdown", "en")
	require.NoError(t, err)
	assert.Equal(t, Neutral(), s)
}

func TestRuleClassifier(t *testing.T) {
	scores, err := ruleClassifier{}.Classify(context.Background(), []string{
		"scheme launch to benefit farmers with subsidy support",
		"corruption complaint over delayed payments",
		"weather outlook for the coast",
	})
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.Equal(t, "positive", scores[0].Label)
	assert.Equal(t, "negative", scores[1].Label)
	assert.Equal(t, "neutral", scores[2].Label)
	assert.Equal(t, 0.5, scores[2].Score)
}
