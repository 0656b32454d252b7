package relevance

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsscope/newswatch/internal/cache"
)

func testClassifier(t *testing.T) *Classifier {
	t.Helper()
	mr := miniredis.RunT(t)
	return New(cache.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})))
}

func TestAnalyzeIrrelevantText(t *testing.T) {
	cl := testClassifier(t)
	res := cl.Analyze(context.Background(), "Local cafe opens second branch", "", "", "en")

	assert.False(t, res.IsGOI)
	assert.Zero(t, res.Score)
	assert.Empty(t, res.Schemes)
	assert.Empty(t, res.Ministries)
}

func TestAnalyzeKeywordScoring(t *testing.T) {
	cl := testClassifier(t)
	// Three keyword hits and no ministry or scheme: 0.30, at the is_goi bar.
	res := cl.Analyze(context.Background(),
		"Union cabinet approves new parliament session dates", "", "", "en")

	require.GreaterOrEqual(t, len(res.MatchedTerms), 3)
	assert.True(t, res.IsGOI)
	assert.GreaterOrEqual(t, res.Score, 0.30)
	assert.LessOrEqual(t, res.Score, 0.50)
}

func TestAnalyzeKeywordCap(t *testing.T) {
	cl := testClassifier(t)
	res := cl.Analyze(context.Background(),
		"government of india central government union cabinet prime minister ministry parliament lok sabha rajya sabha niti aayog",
		"", "", "en")

	require.Greater(t, len(res.MatchedTerms), 5)
	assert.LessOrEqual(t, res.Score, 1.0)
}

func TestAnalyzeMinistryBoost(t *testing.T) {
	cl := testClassifier(t)
	res := cl.Analyze(context.Background(),
		"Ministry of Rural Development reviews wage payments", "", "", "en")

	assert.Contains(t, res.Ministries, "ministry of rural development")
	assert.True(t, res.IsGOI, "a ministry hit alone marks the story as GOI")
}

func TestAnalyzeSchemeFloorsScore(t *testing.T) {
	cl := testClassifier(t)
	res := cl.Analyze(context.Background(),
		"Ayushman Bharat card issuance crosses 30 crore", "", "", "en")

	assert.True(t, res.IsGOI)
	assert.Contains(t, res.Schemes, "Ayushman Bharat")
	assert.GreaterOrEqual(t, res.Score, 0.8)
}

func TestAnalyzeHindiKeywordsAndAliases(t *testing.T) {
	cl := testClassifier(t)
	res := cl.Analyze(context.Background(),
		"केंद्र सरकार ने मनरेगा मजदूरी बढ़ाई", "", "", "hi")

	assert.True(t, res.IsGOI)
	assert.Contains(t, res.Schemes, "MGNREGA", "Devanagari alias must resolve to the canonical name")
	assert.NotEmpty(t, res.MatchedTerms)
}

func TestDetectSchemesCaches(t *testing.T) {
	mr := miniredis.RunT(t)
	cl := New(cache.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})))
	ctx := context.Background()

	got := cl.DetectSchemes(ctx, "pm kisan installment released")
	require.Equal(t, []string{"PM Kisan"}, got)

	// Second call is a cache hit; keys live under the schemes prefix.
	got = cl.DetectSchemes(ctx, "pm kisan installment released")
	assert.Equal(t, []string{"PM Kisan"}, got)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "schemes:")
}

func TestDetectSchemesMultipleAliasesOneName(t *testing.T) {
	cl := testClassifier(t)
	got := cl.DetectSchemes(context.Background(), "mgnrega nrega wage revision")

	assert.Equal(t, []string{"MGNREGA"}, got, "multiple aliases of one scheme count once")
}

func TestExtractEntities(t *testing.T) {
	cl := testClassifier(t)
	res := cl.Analyze(context.Background(),
		"PM Modi chairs NITI Aayog governing council meeting", "", "", "en")

	var names []string
	for _, e := range res.Entities {
		names = append(names, e.Text)
	}
	assert.Contains(t, names, "Narendra Modi")
	assert.Contains(t, names, "NITI Aayog")
}

func TestAnalyzeEmptyDefaults(t *testing.T) {
	cl := testClassifier(t)
	res := cl.Analyze(context.Background(), "", "", "", "en")

	assert.NotNil(t, res.Schemes)
	assert.NotNil(t, res.Ministries)
	assert.NotNil(t, res.Entities)
	assert.NotNil(t, res.MatchedTerms)
}
