package confidence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// baseInput scores 1.0 before clamping: 0.25 + 0.30 + 0.20 + 0.15 + 0.10 + 0.10.
func baseInput() Input {
	return Input{
		KeywordCount:         5,
		SchemeCount:          3,
		MinistryCount:        1,
		TrustedSource:        true,
		IsGOI:                true,
		ClassifierConfidence: 0.9,
		Category:             "Government",
		SentimentScore:       0.5,
		TitleLength:          80,
		DetectedLanguage:     "hi",
		PublishedAt:          now.Add(-24 * time.Hour),
	}
}

func TestScoreHighAutoApproved(t *testing.T) {
	r := Score(baseInput(), now)

	assert.Equal(t, 1.0, r.Score)
	assert.Equal(t, LevelHigh, r.Level)
	assert.True(t, r.AutoApproved)
	assert.False(t, r.AutoRejected)
	assert.False(t, r.NeedsVerification)
	assert.Empty(t, r.Anomalies)
}

func TestScoreBands(t *testing.T) {
	in := Input{KeywordCount: 1, Category: "Government", DetectedLanguage: "en", SentimentScore: 0.5, TitleLength: 50}
	assert.InDelta(t, 0.10, Score(in, now).Score, 1e-9)

	in.KeywordCount = 3
	assert.InDelta(t, 0.20, Score(in, now).Score, 1e-9)

	in.KeywordCount = 5
	assert.InDelta(t, 0.25, Score(in, now).Score, 1e-9)

	in.SchemeCount = 1
	assert.InDelta(t, 0.45, Score(in, now).Score, 1e-9)
	in.SchemeCount = 2
	assert.InDelta(t, 0.50, Score(in, now).Score, 1e-9)
	in.SchemeCount = 3
	assert.InDelta(t, 0.55, Score(in, now).Score, 1e-9)

	in.ClassifierConfidence = 0.5
	assert.InDelta(t, 0.60, Score(in, now).Score, 1e-9)
	in.ClassifierConfidence = 0.8
	assert.InDelta(t, 0.65, Score(in, now).Score, 1e-9)
}

func TestScorePenalties(t *testing.T) {
	in := baseInput()
	in.HasExclusionKeywords = true
	assert.InDelta(t, 0.50, Score(in, now).Score, 1e-9)

	in = baseInput()
	in.HasEntertainmentMarkers = true
	// Entertainment also trips two anomaly patterns.
	r := Score(in, now)
	assert.InDelta(t, 0.70, r.Score, 1e-9)
	assert.NotEmpty(t, r.Anomalies)

	in = baseInput()
	in.HasTributeMarkers = true
	assert.InDelta(t, 0.80, Score(in, now).Score, 1e-9)

	in = baseInput()
	in.PublishedAt = now.Add(-45 * 24 * time.Hour)
	assert.InDelta(t, 0.90, Score(in, now).Score, 1e-9)
}

func TestScoreZeroKeywordPenalty(t *testing.T) {
	in := Input{Category: "Other", DetectedLanguage: "en", SentimentScore: 0.5, TitleLength: 50}
	r := Score(in, now)

	assert.Equal(t, 0.0, r.Score, "penalty clamps at zero")
	assert.Equal(t, LevelLow, r.Level)
	assert.True(t, r.AutoRejected)
}

func TestScoreMediumNeedsVerification(t *testing.T) {
	in := Input{
		KeywordCount: 3, SchemeCount: 1, Category: "Government",
		DetectedLanguage: "en", SentimentScore: 0.5, TitleLength: 50,
		ClassifierConfidence: 0.6,
	}
	// 0.20 + 0.20 + 0.05 = 0.45, still low.
	assert.Equal(t, LevelLow, Score(in, now).Level)

	in.IsGOI = true
	r := Score(in, now) // 0.55
	assert.Equal(t, LevelMedium, r.Level)
	assert.True(t, r.NeedsVerification)
	assert.False(t, r.AutoApproved)
	assert.False(t, r.AutoRejected)
}

func TestAnomalyForcesVerification(t *testing.T) {
	in := baseInput()
	in.SentimentScore = 0.97
	r := Score(in, now)

	assert.Contains(t, r.Anomalies, "extreme_sentiment_score")
	assert.True(t, r.NeedsVerification, "anomaly overrides auto-approval")
	assert.False(t, r.AutoApproved)
}

func TestAnomalyPreservesRejection(t *testing.T) {
	in := Input{Category: "Other", SentimentScore: 0.99, TitleLength: 50, DetectedLanguage: "en"}
	r := Score(in, now)

	assert.True(t, r.AutoRejected, "rejection stands even with anomalies")
	assert.True(t, r.NeedsVerification)
}

func TestAnomalyPatterns(t *testing.T) {
	in := baseInput()
	in.HasEntertainmentMarkers = true
	r := Score(in, now)
	assert.Contains(t, r.Anomalies, "government_keywords_with_entertainment")
	assert.Contains(t, r.Anomalies, "trusted_source_entertainment_content")

	in = baseInput()
	in.Category = "Business"
	r = Score(in, now)
	assert.Contains(t, r.Anomalies, "scheme_outside_government_category")

	in = baseInput()
	in.TitleLength = 250
	r = Score(in, now)
	assert.Contains(t, r.Anomalies, "title_unusually_long")

	in = baseInput()
	in.DetectedLanguage = "unknown"
	r = Score(in, now)
	assert.Contains(t, r.Anomalies, "missing_detected_language")

	in = baseInput()
	in.HasInternationalKeywords = true
	r = Score(in, now)
	assert.Contains(t, r.Anomalies, "goi_keywords_with_international")
}

func TestApprovalAndRejectionNeverCoexist(t *testing.T) {
	inputs := []Input{
		baseInput(),
		{Category: "Other", DetectedLanguage: "en"},
		{KeywordCount: 3, SchemeCount: 1, IsGOI: true, Category: "Government", DetectedLanguage: "en"},
	}
	for _, in := range inputs {
		r := Score(in, now)
		assert.False(t, r.AutoApproved && r.AutoRejected)
	}
}

func TestDefault(t *testing.T) {
	r := Default()
	assert.Equal(t, 0.5, r.Score)
	assert.Equal(t, LevelMedium, r.Level)
	assert.True(t, r.NeedsVerification)
	assert.Equal(t, []string{"confidence_calculation_error"}, r.Anomalies)
}
